// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"intent-insights/internal/common/config"
	apperrors "intent-insights/internal/common/errors"
	"intent-insights/internal/common/logger"
	"intent-insights/internal/common/metrics"
	"intent-insights/internal/common/observability"
)

// JobHandler is implemented by every workflow worker.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// StartWorker opens a job worker for taskType. It returns nil when the
// worker is disabled in config.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler JobHandler, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jobWorker
}

// JobRunner holds the steps shared by every job: variable parsing, a
// per-job timeout, metrics, completion and error mapping.
type JobRunner struct {
	TaskType string
	Timeout  time.Duration
	Errors   *apperrors.ErrorHandler
	Logger   logger.Logger
	Obs      *observability.Observability
}

func NewJobRunner(taskType string, timeout time.Duration, obs *observability.Observability, log logger.Logger) *JobRunner {
	return &JobRunner{
		TaskType: taskType,
		Timeout:  timeout,
		Errors:   apperrors.NewErrorHandler(log),
		Logger:   log,
		Obs:      obs,
	}
}

// Run decodes the job variables into input and completes the job with the
// result of execute.
func (r *JobRunner) Run(client worker.JobClient, job entities.Job, input interface{}, execute func(ctx context.Context) (interface{}, error)) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(r.TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.TaskType).Dec()

	r.Logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()

	if err := json.Unmarshal([]byte(job.Variables), input); err != nil {
		r.fail(ctx, client, job, apperrors.NewInvalidJobVariablesError(err), start)
		return
	}

	output, err := execute(ctx)
	if err != nil {
		r.fail(ctx, client, job, err, start)
		return
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.Logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		r.Logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(r.TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(r.TaskType).Observe(time.Since(start).Seconds())
	r.Obs.RecordJobProcessed(ctx, "completed")
	r.Obs.RecordJobDuration(ctx, time.Since(start), "completed")
}

func (r *JobRunner) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := apperrors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(r.TaskType, string(stdErr.Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(r.TaskType).Observe(time.Since(start).Seconds())
	r.Obs.RecordJobProcessed(ctx, "failed")
	r.Obs.RecordJobDuration(ctx, time.Since(start), "failed")

	r.Errors.HandleJobError(ctx, client, job, stdErr)
}
