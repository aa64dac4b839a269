// internal/workers/verification/lookup-vehicle/handler.go
package lookupvehicle

import (
	"context"
	stderrors "errors"

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

const TaskType = "lookup-vehicle"

type Handler struct {
	config     *Config
	engine     *plate.Engine
	store      vehicleregistry.Store
	validator  *validation.SchemaValidator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

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

// Execute canonicalizes the typed plate against the registry's plates and
// returns the matching record.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	plates, err := h.store.Plates(ctx)
	if err != nil {
		h.recordLookup("error")
		return nil, errors.NewRegistryLookupFailedError(input.VehicleNo, err)
	}

	vehicleNo := h.engine.Recover(input.VehicleNo, plates, false)
	if vehicleNo == "" {
		h.recordLookup("invalid")
		return nil, errors.NewInvalidVehicleNoError(input.VehicleNo)
	}

	record, err := h.store.Get(ctx, vehicleNo)
	switch {
	case stderrors.Is(err, vehicleregistry.ErrNotFound):
		h.recordLookup("not_found")
		return nil, errors.NewVehicleNotFoundError(vehicleNo)
	case err != nil:
		h.recordLookup("error")
		return nil, errors.NewRegistryLookupFailedError(vehicleNo, err)
	}

	h.recordLookup("found")
	h.logger.Info("vehicle found", map[string]interface{}{
		"input":     input.VehicleNo,
		"vehicleNo": vehicleNo,
	})

	return &Output{
		VehicleNo: vehicleNo,
		Source:    h.config.Source,
		Vehicle:   record,
	}, nil
}

func (h *Handler) recordLookup(outcome string) {
	metrics.VehicleRegistryLookups.WithLabelValues(h.config.Source, outcome).Inc()
}
