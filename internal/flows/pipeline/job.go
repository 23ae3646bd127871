package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"toolbox-ai/internal/common/errors"
	"toolbox-ai/internal/common/logger"
	"toolbox-ai/internal/common/metrics"
	"toolbox-ai/internal/common/observability"
)

type jobKeyCtx struct{}

// WithJobKey tags ctx with the Zeebe job key so fallback audits can be
// correlated with the job that produced them.
func WithJobKey(ctx context.Context, key int64) context.Context {
	return context.WithValue(ctx, jobKeyCtx{}, key)
}

// JobKeyFrom returns the job key stored by WithJobKey, or 0.
func JobKeyFrom(ctx context.Context) int64 {
	key, _ := ctx.Value(jobKeyCtx{}).(int64)
	return key
}

// Reporter does the per-job bookkeeping shared by flow handlers: metrics,
// completion and failure.
type Reporter struct {
	flow     string
	taskType string
	logger   logger.Logger
	obs      *observability.Observability
	errors   *errors.ErrorHandler
}

func NewReporter(flow, taskType string, log logger.Logger, obs *observability.Observability) *Reporter {
	return &Reporter{
		flow:     flow,
		taskType: taskType,
		logger:   log,
		obs:      obs,
		errors:   errors.NewErrorHandler(log),
	}
}

// Start marks a job active and returns the function that marks it done.
func (r *Reporter) Start() func() {
	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	return func() { metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec() }
}

// Complete sends output as the job's result variables.
func (r *Reporter) Complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, started time.Time) error {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		r.Fail(ctx, client, job, errors.NewInternalError(fmt.Errorf("encode job result: %w", err)), started)
		return err
	}

	if _, err := cmd.Send(ctx); err != nil {
		r.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
			"worker": r.taskType,
		})
		return fmt.Errorf("complete job %d: %w", job.GetKey(), err)
	}

	elapsed := time.Since(started)
	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(elapsed.Seconds())
	r.obs.RecordJobProcessed(ctx, r.flow, "completed")
	r.obs.RecordJobDuration(ctx, r.flow, elapsed, "completed")

	r.logger.Info("Job completed", map[string]interface{}{
		"jobKey":     job.GetKey(),
		"worker":     r.taskType,
		"durationMs": elapsed.Milliseconds(),
	})
	return nil
}

// Fail reports err on the job: retryable errors are failed with retries,
// everything else is thrown as a BPMN error.
func (r *Reporter) Fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, started time.Time) {
	code := errors.Normalize(err).Code
	metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(code)).Inc()
	r.obs.RecordJobProcessed(ctx, r.flow, "failed")
	r.obs.RecordJobDuration(ctx, r.flow, time.Since(started), "failed")

	r.errors.HandleJobError(ctx, client, job, err)
}
