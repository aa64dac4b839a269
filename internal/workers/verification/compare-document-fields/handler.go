// internal/workers/verification/compare-document-fields/handler.go
package comparedocumentfields

import (
	"context"

	"field-verification/internal/audit"
	"field-verification/internal/common/camunda"
	"field-verification/internal/common/errors"
	"field-verification/internal/common/logger"
	"field-verification/internal/common/metrics"
	"field-verification/internal/common/validation"
	"field-verification/internal/verification/compare"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "compare-document-fields"

// Auditor is satisfied by *audit.Indexer.
type Auditor interface {
	IndexDocument(ctx context.Context, id string, src audit.Source, result compare.Result) (string, error)
}

type Handler struct {
	config     *Config
	comparator *compare.Comparator
	auditor    Auditor
	validator  *validation.SchemaValidator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, auditor Auditor, validator *validation.SchemaValidator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		comparator: compare.NewComparator(config.Compare),
		auditor:    auditor,
		validator:  validator,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	output := h.execute(ctx, input, job.Key)
	return camunda.Complete(ctx, client, job, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := h.validator.DecodeJob(TaskType, job, &input); err != nil {
		return nil, err
	}
	return &input, nil
}

// Execute scores the document. It never fails: malformed fields score 0.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input, 0), nil
}

func (h *Handler) execute(ctx context.Context, input *Input, jobKey int64) *Output {
	result := h.comparator.Compare(input.DocType, input.Agreement, input.Extracted)

	metrics.RecordVerification("document", string(result.Verdict), result.FinalScore)
	if result.HardFail {
		metrics.VerificationHardFails.WithLabelValues(string(result.DocType)).Inc()
	}

	id := uuid.New().String()
	if h.auditor != nil {
		src := audit.Source{ApplicationID: input.ApplicationID, ProcessID: input.ProcessID, JobKey: jobKey}
		if _, err := h.auditor.IndexDocument(ctx, id, src, result); err != nil {
			h.logger.Warn("audit index failed", map[string]interface{}{
				"verificationId": id,
				"error":          err.Error(),
			})
		}
	}

	h.logger.Info("document compared", map[string]interface{}{
		"applicationId":  input.ApplicationID,
		"verificationId": id,
		"docType":        result.DocType,
		"finalScore":     result.FinalScore,
		"verdict":        result.Verdict,
		"hardFail":       result.HardFail,
	})

	return &Output{
		VerificationID: id,
		DocType:        string(result.DocType),
		FinalScore:     result.FinalScore,
		Verdict:        string(result.Verdict),
		HardFail:       result.HardFail,
		FieldScores:    result.FieldScores,
		Reasons:        result.Reasons,
	}
}
