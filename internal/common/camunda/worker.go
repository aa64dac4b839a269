// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"field-verification/internal/common/errors"
	"field-verification/internal/common/logger"
	"field-verification/internal/common/metrics"
	"field-verification/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// JobHandler reports the job outcome to the broker itself and returns the
// error it reported, if any. ctx carries the job span.
type JobHandler interface {
	Handle(ctx context.Context, client worker.JobClient, job entities.Job) error
}

type WorkerOptions struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// Instrument wraps handler with the worker metrics and a span per job.
// tracer and obs may be nil.
func Instrument(taskType string, handler JobHandler, tracer trace.Tracer, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

		ctx := context.Background()
		var span trace.Span
		if tracer != nil {
			ctx, span = tracer.Start(ctx, taskType, trace.WithAttributes(
				attribute.String("zeebe.task_type", taskType),
				attribute.Int64("zeebe.job_key", job.Key),
				attribute.Int64("zeebe.process_instance_key", job.ProcessInstanceKey),
			))
			defer span.End()
		}

		start := time.Now()
		err := handler.Handle(ctx, client, job)
		elapsed := time.Since(start)

		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())

		status := "completed"
		if err != nil {
			status = "failed"
			code := string(errors.Normalize(err).Code)
			metrics.WorkerJobsFailed.WithLabelValues(taskType, code).Inc()
			if span != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, code)
			}
		} else {
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		}

		if obs != nil {
			obs.RecordJobProcessed(ctx, taskType, status)
			obs.RecordJobDuration(ctx, taskType, elapsed, status)
		}
	}
}

// StartWorker opens a job worker for opts.TaskType.
func StartWorker(client zbc.Client, opts WorkerOptions, handler worker.JobHandler, log logger.Logger) *CamundaWorker {
	jobWorker := client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(handler).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      opts.TaskType,
		"maxJobsActive": opts.MaxJobsActive,
		"timeout_ms":    opts.Timeout.Milliseconds(),
	})

	return &CamundaWorker{
		worker:   jobWorker,
		logger:   log,
		taskType: opts.TaskType,
	}
}

// Stop closes the worker and waits for in-flight jobs.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.worker.Close()
	w.worker.AwaitClose()
}

// Complete sends the complete command with output as the job variables.
func Complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete job command: %w", err)
	}
	return nil
}
