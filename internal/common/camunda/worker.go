// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"toolbox-ai/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every flow handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job) error
}

// WorkerOptions configures one job worker subscription.
type WorkerOptions struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
}

type FlowWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for opts.TaskType. Handler errors are logged;
// the handler itself is responsible for completing or failing the job.
func NewWorker(client zbc.Client, opts WorkerOptions, handler JobHandler, log logger.Logger) *FlowWorker {
	log = log.With(map[string]interface{}{"taskType": opts.TaskType})

	cmd := client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(func(client worker.JobClient, job entities.Job) {
			if err := handler.Handle(client, job); err != nil {
				log.Error("handler returned error", map[string]interface{}{
					"jobKey": job.Key,
					"error":  err.Error(),
				})
			}
		}).
		MaxJobsActive(opts.MaxJobsActive)
	if opts.Timeout > 0 {
		cmd = cmd.Timeout(opts.Timeout)
	}

	log.Info("worker started", map[string]interface{}{"maxJobsActive": opts.MaxJobsActive})

	return &FlowWorker{
		worker:   cmd.Open(),
		logger:   log,
		taskType: opts.TaskType,
	}
}

func (w *FlowWorker) TaskType() string {
	return w.taskType
}

// Stop closes the subscription and waits for in-flight jobs.
func (w *FlowWorker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}
