// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler fails or throws a job depending on the error's retry policy.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError reports err to the broker and returns the BPMN error that
// was sent.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) *BPMNError {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	remaining := h.remainingRetries(job, bpmnErr.Retries)
	h.logError(job, stdErr, bpmnErr, remaining)

	if remaining > 0 {
		h.failJob(ctx, client, job, bpmnErr, remaining)
	} else {
		h.throwBPMNError(ctx, client, job, bpmnErr)
	}
	return bpmnErr
}

// Normalize unwraps a StandardError from err, or wraps err as INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// remainingRetries decrements the broker's retry counter, capped by the
// code's own budget.
func (h *ErrorHandler) remainingRetries(job entities.Job, budget int) int {
	if budget <= 0 || job.Retries <= 1 {
		return 0
	}
	remaining := int(job.Retries) - 1
	if remaining > budget {
		remaining = budget
	}
	return remaining
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, retries int) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(retries)).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if cmdWithVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			_, _ = cmdWithVars.Send(ctx)
			return
		}
	}

	_, _ = cmd.Send(ctx)
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if cmdWithVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			_, _ = cmdWithVars.Send(ctx)
			return
		}
	}

	_, _ = cmd.Send(ctx)
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError, remaining int) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"bpmnErrorCode":    bpmnErr.Code,
		"message":          bpmnErr.Message,
		"details":          stdErr.Details,
		"retryable":        stdErr.Retryable,
		"retriesRemaining": remaining,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
