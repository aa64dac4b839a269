// internal/workers/verification/compare-document-fields/models.go
package comparedocumentfields

import "field-verification/internal/verification/compare"

type Input struct {
	ApplicationID string                 `json:"applicationId"`
	ProcessID     string                 `json:"processId,omitempty"`
	DocType       string                 `json:"docType"`
	Agreement     map[string]interface{} `json:"agreement"`
	Extracted     map[string]interface{} `json:"extracted"`
}

type Output struct {
	VerificationID string                        `json:"verificationId"`
	DocType        string                        `json:"docType"`
	FinalScore     float64                       `json:"finalScore"`
	Verdict        string                        `json:"verdict"`
	HardFail       bool                          `json:"hardFail"`
	FieldScores    map[string]compare.FieldScore `json:"fieldScores"`
	Reasons        []string                      `json:"reasons"`
}
