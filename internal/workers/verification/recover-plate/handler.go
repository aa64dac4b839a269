// internal/workers/verification/recover-plate/handler.go
package recoverplate

import (
	"context"
	stderrors "errors"
	"math"

	"field-verification/internal/common/camunda"
	"field-verification/internal/common/errors"
	"field-verification/internal/common/logger"
	"field-verification/internal/common/metrics"
	"field-verification/internal/common/validation"
	"field-verification/internal/vehicleregistry"
	"field-verification/internal/verification/plate"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "recover-plate"

var errNoRegistry = stderrors.New("vehicle registry not configured")

type Handler struct {
	config     *Config
	engine     *plate.Engine
	store      vehicleregistry.Store
	validator  *validation.SchemaValidator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the handler. store is only consulted for jobs that set
// useRegistryPlates and may be nil otherwise.
func NewHandler(config *Config, engine *plate.Engine, store vehicleregistry.Store, validator *validation.SchemaValidator, log logger.Logger) *Handler {
	if engine == nil {
		engine = plate.NewEngine(nil, config.Plate)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		engine:     engine,
		store:      store,
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

	output, err := h.Execute(ctx, input)
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

// Execute recovers a plate from the raw text. An unrecoverable text is not an
// error: the output carries recovered=false and an empty vehicleNo.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	prefs := input.Preferred
	if input.UseRegistryPlates {
		if h.store == nil {
			return nil, errors.NewRegistryLookupFailedError("", errNoRegistry)
		}
		plates, err := h.store.Plates(ctx)
		if err != nil {
			return nil, errors.NewRegistryLookupFailedError("", err)
		}
		prefs = append(append([]string(nil), prefs...), plates...)
	}

	rec := h.engine.RecoverDetailed(input.RawText, prefs, input.PreferredOnly)
	metrics.RecordPlateRecovery(string(rec.Mode), rec.Plate)

	h.logger.Info("plate recovery finished", map[string]interface{}{
		"vehicleNo":   rec.Plate,
		"mode":        rec.Mode,
		"cost":        rec.Cost,
		"preferences": len(prefs),
	})

	out := &Output{
		VehicleNo: rec.Plate,
		Recovered: rec.Plate != "",
		Mode:      string(rec.Mode),
	}
	if out.Recovered {
		out.Cost = math.Round(rec.Cost*100) / 100
	}
	return out, nil
}
