package validation

import (
	stderrors "errors"
	"testing"

	"field-verification/internal/common/errors"
	"field-verification/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *SchemaValidator {
	reg, err := registry.Default()
	require.NoError(t, err)
	v, err := NewSchemaValidator(reg)
	require.NoError(t, err)
	return v
}

func TestNewSchemaValidator_CompilesRegistry(t *testing.T) {
	v := newValidator(t)
	assert.Contains(t, v.TaskTypes(), "compare-document-fields")
	assert.Len(t, v.TaskTypes(), 6)
}

func TestNewSchemaValidator_BadSchema(t *testing.T) {
	reg := &registry.ActivityRegistry{Activities: []registry.Activity{{
		TaskType:    "broken",
		InputSchema: map[string]interface{}{"type": 42},
	}}}
	_, err := NewSchemaValidator(reg)
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name     string
		taskType string
		vars     map[string]interface{}
		wantErr  bool
	}{
		{
			name:     "valid compare input",
			taskType: "compare-document-fields",
			vars: map[string]interface{}{
				"applicationId": "APP-1",
				"docType":       "invoice",
				"agreement":     map[string]interface{}{"name": "Ravi Kumar"},
				"extracted":     map[string]interface{}{"name": "Ravi Kumar"},
			},
		},
		{
			name:     "missing extracted",
			taskType: "compare-document-fields",
			vars: map[string]interface{}{
				"applicationId": "APP-1",
				"docType":       "invoice",
				"agreement":     map[string]interface{}{},
			},
			wantErr: true,
		},
		{
			name:     "wrong type",
			taskType: "recover-plate",
			vars:     map[string]interface{}{"rawText": 123},
			wantErr:  true,
		},
		{
			name:     "bad enum",
			taskType: "notify-verification-alert",
			vars: map[string]interface{}{
				"applicationId":  "APP-1",
				"verificationId": "v-1",
				"kind":           "face",
				"verdict":        "likely_fake",
			},
			wantErr: true,
		},
		{
			name:     "unknown task type passes",
			taskType: "not-registered",
			vars:     map[string]interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(tt.taskType, tt.vars)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
			assert.NotEmpty(t, stdErr.Metadata["validationErrors"])
		})
	}
}

func TestCheck_NilValidator(t *testing.T) {
	var v *SchemaValidator
	assert.NoError(t, v.Check("recover-plate", nil))
}
