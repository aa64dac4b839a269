package validation

import (
	"fmt"
	"sort"
	"strings"

	"field-verification/internal/common/errors"
	"field-verification/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// SchemaValidator holds the compiled input schema of every registered task
// type.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewSchemaValidator compiles the input schemas in reg. Activities without a
// schema are skipped.
func NewSchemaValidator(reg *registry.ActivityRegistry) (*SchemaValidator, error) {
	v := &SchemaValidator{schemas: make(map[string]*gojsonschema.Schema)}
	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
		}
		v.schemas[a.TaskType] = schema
	}
	return v, nil
}

// TaskTypes returns the task types that have a compiled schema.
func (v *SchemaValidator) TaskTypes() []string {
	out := make([]string, 0, len(v.schemas))
	for t := range v.schemas {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Validate checks vars against taskType's schema. Unknown task types pass.
func (v *SchemaValidator) Validate(taskType string, vars map[string]interface{}) (*ValidationResult, error) {
	schema, ok := v.schemas[taskType]
	if !ok {
		return &ValidationResult{Valid: true}, nil
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(vars))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// Check is Validate folded into a single INVALID_INPUT error. A nil
// validator accepts everything.
func (v *SchemaValidator) Check(taskType string, vars map[string]interface{}) error {
	if v == nil {
		return nil
	}

	result, err := v.Validate(taskType, vars)
	if err != nil {
		return errors.NewInvalidInputError(err.Error())
	}
	if result.Valid {
		return nil
	}

	msgs := make([]string, len(result.Errors))
	for i, e := range result.Errors {
		msgs[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return errors.NewInvalidInputError(strings.Join(msgs, "; ")).
		WithMetadata("validationErrors", result.Errors)
}

// DecodeJob validates the job variables against taskType's schema and
// decodes them into out.
func (v *SchemaValidator) DecodeJob(taskType string, job entities.Job, out interface{}) error {
	vars, err := job.GetVariablesAsMap()
	if err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("parse variables: %v", err))
	}
	if err := v.Check(taskType, vars); err != nil {
		return err
	}
	if err := job.GetVariablesAs(out); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("decode variables: %v", err))
	}
	return nil
}
