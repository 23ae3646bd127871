package diyfixguide

import (
	"context"
	"fmt"
	"time"

	"toolbox-ai/internal/common/camunda"
	"toolbox-ai/internal/common/config"
	"toolbox-ai/internal/common/logger"
	"toolbox-ai/internal/common/observability"
	"toolbox-ai/internal/flows/pipeline"
	"toolbox-ai/internal/llm"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	FlowName = "diy-fix-guide"
	TaskType = "toolbox.diy-fix-guide"
)

type Handler struct {
	config   *Config
	logger   logger.Logger
	deps     pipeline.Deps
	reporter *pipeline.Reporter
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Generator     llm.Generator
	Audit         pipeline.Recorder
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", FlowName, err)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.With(map[string]interface{}{"worker": TaskType})

	return &Handler{
		config: workerConfig,
		logger: loggerInstance,
		deps: pipeline.Deps{
			Generator: opts.Generator,
			Audit:     opts.Audit,
			Obs:       opts.Observability,
			Logger:    loggerInstance,
		},
		reporter: pipeline.NewReporter(FlowName, TaskType, loggerInstance, opts.Observability),
	}, nil
}

// Handle is the Zeebe entry point. The job is always completed or failed
// here; the returned error only reports a completion that could not be sent.
func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	started := time.Now()
	done := h.reporter.Start()
	defer done()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()
	ctx = pipeline.WithJobKey(ctx, job.GetKey())

	h.logger.Info("Processing DIY fix guide request", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.reporter.Fail(ctx, client, job, err, started)
		return nil
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.reporter.Fail(ctx, client, job, err, started)
		return nil
	}

	return h.reporter.Complete(ctx, client, job, output, started)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := pipeline.DecodeVariables(job.GetVariables(), &input); err != nil {
		return nil, err
	}
	return &input, nil
}

// Execute validates input and resolves a repair guide. It only fails on
// invalid input; unusable model output degrades to the fallback guide.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := pipeline.ValidateInput(input, GetInputSchema()); err != nil {
		return nil, err
	}

	job := pipeline.Job{
		Flow:   FlowName,
		JobKey: pipeline.JobKeyFrom(ctx),
		Request: llm.Request{
			System:    systemPrompt,
			Prompt:    buildPrompt(input),
			MaxTokens: h.config.MaxTokens,
		},
	}

	res, err := pipeline.Resolve(ctx, h.deps, job, GetOutputSchema(), func() Guide {
		return BuildFallbackGuide(*input)
	})
	if err != nil {
		return nil, err
	}

	return &Output{Guide: res.Value, Source: string(res.Source)}, nil
}

func (h *Handler) WorkerOptions() camunda.WorkerOptions {
	return camunda.WorkerOptions{
		TaskType:      TaskType,
		MaxJobsActive: h.config.MaxJobsActive,
		Timeout:       h.config.Timeout,
	}
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
