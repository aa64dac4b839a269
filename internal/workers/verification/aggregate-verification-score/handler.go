// internal/workers/verification/aggregate-verification-score/handler.go
package aggregateverificationscore

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"sort"
	"time"

	"field-verification/internal/common/camunda"
	"field-verification/internal/common/errors"
	"field-verification/internal/common/logger"
	"field-verification/internal/common/validation"
	"field-verification/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "aggregate-verification-score"

// The empty row is inserted first so that SELECT ... FOR UPDATE always has a
// row to lock, even for the first jobs of a process arriving together.
const (
	ensureRowQuery = `INSERT INTO verification_process_scores
			(application_id, process_id, steps, total, updated_at)
		VALUES ($1, $2, '[]'::jsonb, 0, $3)
		ON CONFLICT (application_id, process_id) DO NOTHING`

	selectStepsQuery = `SELECT steps FROM verification_process_scores
		WHERE application_id = $1 AND process_id = $2 FOR UPDATE`

	updateScoreQuery = `UPDATE verification_process_scores
		SET steps = $3, total = $4, updated_at = $5
		WHERE application_id = $1 AND process_id = $2`
)

type Handler struct {
	config     *Config
	db         *sql.DB
	validator  *validation.SchemaValidator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(config *Config, db *sql.DB, validator *validation.SchemaValidator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		db:         db,
		validator:  validator,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
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

// Execute merges the given step scores into the stored ones for the process
// and writes the new total. A step that is already stored is replaced.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, h.dbError(ctx, "begin", err)
	}
	defer tx.Rollback()

	updatedAt := h.now()
	if _, err := tx.ExecContext(ctx, ensureRowQuery, input.ApplicationID, input.ProcessID, updatedAt); err != nil {
		return nil, h.dbError(ctx, "ensure_row", err)
	}

	var stored []models.StepScore
	var raw []byte
	err = tx.QueryRowContext(ctx, selectStepsQuery, input.ApplicationID, input.ProcessID).Scan(&raw)
	switch {
	case stderrors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, h.dbError(ctx, "select_steps", err)
	default:
		if err := json.Unmarshal(raw, &stored); err != nil {
			h.logger.Warn("discarding unreadable stored steps", map[string]interface{}{
				"applicationId": input.ApplicationID,
				"processId":     input.ProcessID,
				"error":         err.Error(),
			})
			stored = nil
		}
	}

	steps := MergeSteps(stored, input.Steps)
	total := Total(steps)

	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(fmt.Errorf("marshal steps: %w", err))
	}

	if _, err := tx.ExecContext(ctx, updateScoreQuery,
		input.ApplicationID, input.ProcessID, stepsJSON, total, updatedAt); err != nil {
		return nil, h.dbError(ctx, "update_score", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, h.dbError(ctx, "commit", err)
	}

	h.logger.Info("process score updated", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"processId":     input.ProcessID,
		"steps":         len(steps),
		"total":         total,
	})

	return &Output{
		Total:     total,
		StepCount: len(steps),
		Steps:     steps,
		UpdatedAt: updatedAt.Format(time.RFC3339),
	}, nil
}

func (h *Handler) dbError(ctx context.Context, op string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError(op)
	}
	return errors.NewDatabaseInsertFailedError(fmt.Errorf("%s: %w", op, err))
}

// MergeSteps overlays update on stored by step number, clamps every score
// to [0,100] and orders the result by step.
func MergeSteps(stored, update []models.StepScore) []models.StepScore {
	byStep := make(map[int]float64, len(stored)+len(update))
	for _, s := range stored {
		byStep[s.Step] = s.Score
	}
	for _, s := range update {
		byStep[s.Step] = s.Score
	}

	out := make([]models.StepScore, 0, len(byStep))
	for step, score := range byStep {
		out = append(out, models.StepScore{Step: step, Score: clamp(score)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Step < out[j].Step })
	return out
}

// Total sums the step scores, rounded to two decimals.
func Total(steps []models.StepScore) float64 {
	sum := 0.0
	for _, s := range steps {
		sum += s.Score
	}
	return math.Round(sum*100) / 100
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
