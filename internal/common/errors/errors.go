// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Plate and registry outcomes
	ErrCodeInvalidVehicleNo     ErrorCode = "INVALID_VEHICLE_NO"
	ErrCodeVehicleNotFound      ErrorCode = "VEHICLE_NOT_FOUND"
	ErrCodePlateOCRFailed       ErrorCode = "PLATE_OCR_FAILED"
	ErrCodeRegistryLookupFailed ErrorCode = "REGISTRY_LOOKUP_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"

	ErrCodeAuditIndexFailed ErrorCode = "AUDIT_INDEX_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeNotificationThrottled  ErrorCode = "NOTIFICATION_THROTTLED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value pair that is copied into the BPMN error variables.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Job input failed validation", details, false)
}

// NewInvalidVehicleNoError is raised when no registration number can be read
// from the supplied text.
func NewInvalidVehicleNoError(raw string) *StandardError {
	return newError(ErrCodeInvalidVehicleNo, "Invalid vehicle no", fmt.Sprintf("input: %q", raw), false).
		WithMetadata("vehicleNo", "")
}

// NewVehicleNotFoundError is raised when a recovered plate has no registry record.
func NewVehicleNotFoundError(plate string) *StandardError {
	return newError(ErrCodeVehicleNotFound, "Vehicle not found", fmt.Sprintf("vehicleNo: %s", plate), false).
		WithMetadata("vehicleNo", plate)
}

// NewPlateOCRFailedError is raised when none of the OCR variants yields a plate.
func NewPlateOCRFailedError(variants int) *StandardError {
	return newError(ErrCodePlateOCRFailed, "Could not extract valid vehicle number",
		fmt.Sprintf("ocrVariants: %d", variants), false)
}

// NewRegistryLookupFailedError creates a retryable registry backend error.
func NewRegistryLookupFailedError(plate string, err error) *StandardError {
	return newError(ErrCodeRegistryLookupFailed, "Vehicle registry lookup failed",
		fmt.Sprintf("vehicleNo: %s, error: %s", plate, err.Error()), true)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout", fmt.Sprintf("queryType: %s", queryType), true)
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

// NewAuditIndexFailedError creates a retryable Elasticsearch indexing error.
func NewAuditIndexFailedError(index string, err error) *StandardError {
	return newError(ErrCodeAuditIndexFailed, "Audit indexing failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

// NewNotificationThrottledError is returned when the alert rate limit is exhausted.
func NewNotificationThrottledError(channel string) *StandardError {
	return newError(ErrCodeNotificationThrottled, "Notification rate limit exceeded",
		fmt.Sprintf("channel: %s", channel), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes modelled on
// boundary events. Verification processes catch the same names.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:             "INVALID_INPUT",
	ErrCodeInvalidVehicleNo:         "INVALID_VEHICLE_NO",
	ErrCodeVehicleNotFound:          "NOT_FOUND",
	ErrCodePlateOCRFailed:           "PLATE_OCR_FAILED",
	ErrCodeRegistryLookupFailed:     "REGISTRY_LOOKUP_FAILED",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:     "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:             "QUERY_TIMEOUT",
	ErrCodeDatabaseInsertFailed:     "DATABASE_INSERT_FAILED",
	ErrCodeAuditIndexFailed:         "AUDIT_INDEX_FAILED",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
	ErrCodeNotificationThrottled:    "NOTIFICATION_THROTTLED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeRegistryLookupFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeAuditIndexFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeQueryTimeout:
		return 2

	case ErrCodeNotificationThrottled:
		return 1

	default:
		return 0 // Business outcomes: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VEHICLE") || strings.Contains(codeStr, "PLATE") || strings.Contains(codeStr, "REGISTRY"):
		return "VEHICLE"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "AUDIT"):
		return "AUDIT"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
