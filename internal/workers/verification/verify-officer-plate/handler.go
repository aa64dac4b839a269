// internal/workers/verification/verify-officer-plate/handler.go
package verifyofficerplate

import (
	"context"
	stderrors "errors"
	"math"

	"field-verification/internal/audit"
	"field-verification/internal/common/camunda"
	"field-verification/internal/common/errors"
	"field-verification/internal/common/logger"
	"field-verification/internal/common/metrics"
	"field-verification/internal/common/validation"
	"field-verification/internal/vehicleregistry"
	"field-verification/internal/verification/plate"
	"field-verification/internal/verification/rccompare"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "verify-officer-plate"

// Auditor is satisfied by *audit.Indexer.
type Auditor interface {
	IndexPlate(ctx context.Context, id string, src audit.Source, vehicleNo string, decision rccompare.Decision) (string, error)
}

type Handler struct {
	config     *Config
	engine     *plate.Engine
	store      vehicleregistry.Store
	auditor    Auditor
	validator  *validation.SchemaValidator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, engine *plate.Engine, store vehicleregistry.Store, auditor Auditor, validator *validation.SchemaValidator, log logger.Logger) *Handler {
	if engine == nil {
		engine = plate.NewEngine(nil, config.Plate)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		engine:     engine,
		store:      store,
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

	output, err := h.execute(ctx, input, job.Key)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	return camunda.Complete(ctx, client, job, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := h.validator.DecodeJob(TaskType, job, &input); err != nil {
		return nil, err
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input, 0)
}

func (h *Handler) execute(ctx context.Context, input *Input, jobKey int64) (*Output, error) {
	plates, err := h.store.Plates(ctx)
	if err != nil {
		return nil, errors.NewRegistryLookupFailedError("", err)
	}

	rec, variant := h.recoverPlate(input.OCRTexts, plates)
	metrics.RecordPlateRecovery(string(rec.Mode), rec.Plate)
	if rec.Plate == "" {
		return nil, errors.NewPlateOCRFailedError(len(input.OCRTexts))
	}

	record, err := h.store.Get(ctx, rec.Plate)
	if stderrors.Is(err, vehicleregistry.ErrNotFound) {
		return nil, errors.NewVehicleNotFoundError(rec.Plate)
	}
	if err != nil {
		return nil, errors.NewRegistryLookupFailedError(rec.Plate, err)
	}

	decision := rccompare.CompareOfficerVsRegistry(input.Officer, *record)
	metrics.RecordVerification("plate", string(decision.Level), decision.Score*100)

	id := uuid.New().String()
	if h.auditor != nil {
		src := audit.Source{ApplicationID: input.ApplicationID, ProcessID: input.ProcessID, JobKey: jobKey}
		if _, err := h.auditor.IndexPlate(ctx, id, src, rec.Plate, decision); err != nil {
			h.logger.Warn("audit index failed", map[string]interface{}{
				"verificationId": id,
				"error":          err.Error(),
			})
		}
	}

	h.logger.Info("officer plate verified", map[string]interface{}{
		"applicationId":  input.ApplicationID,
		"verificationId": id,
		"vehicleNo":      rec.Plate,
		"variant":        variant,
		"mode":           rec.Mode,
		"level":          decision.Level,
	})

	return &Output{
		VerificationID: id,
		VehicleNo:      rec.Plate,
		MatchedVariant: variant,
		RecoveryMode:   string(rec.Mode),
		Vehicle:        record,
		Decision:       decision,
		StepScore:      int(math.Round(decision.Score * 100)),
	}, nil
}

// recoverPlate tries each OCR reading against the registry plates only. When
// none matches it runs an open search over the longest reading. It returns
// the recovery and the index of the reading used, or -1.
func (h *Handler) recoverPlate(texts []string, plates []string) (plate.Recovery, int) {
	for i, text := range texts {
		if rec := h.engine.RecoverDetailed(text, plates, true); rec.Plate != "" {
			return rec, i
		}
	}

	longest := -1
	for i, text := range texts {
		if longest < 0 || len(text) > len(texts[longest]) {
			longest = i
		}
	}
	if longest < 0 {
		return plate.Recovery{Mode: plate.ModeOpen}, -1
	}

	rec := h.engine.RecoverDetailed(texts[longest], plates, false)
	if rec.Plate == "" {
		return rec, -1
	}
	return rec, longest
}
