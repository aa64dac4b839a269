// internal/models/verification.go
package models

import "time"

type VerificationKind string

const (
	VerificationKindDocument VerificationKind = "document"
	VerificationKindPlate    VerificationKind = "plate"
)

// VerificationRecord is the audit document written for every verification.
type VerificationRecord struct {
	ID            string                 `json:"id"`
	Kind          VerificationKind       `json:"kind"`
	ApplicationID string                 `json:"applicationId"`
	ProcessID     string                 `json:"processId,omitempty"`
	DocType       string                 `json:"docType,omitempty"`
	VehicleNo     string                 `json:"vehicleNo,omitempty"`
	Score         float64                `json:"score"`
	Verdict       string                 `json:"verdict"`
	HardFail      bool                   `json:"hardFail"`
	Reasons       []string               `json:"reasons,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty"`
	JobKey        int64                  `json:"jobKey,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// StepScore is the score a single verification step contributed to a process.
type StepScore struct {
	Step  int     `json:"step"`
	Score float64 `json:"score"`
}

// ProcessScore is the stored roll-up of step scores for one process.
type ProcessScore struct {
	ApplicationID string      `json:"applicationId"`
	ProcessID     string      `json:"processId"`
	Steps         []StepScore `json:"steps"`
	Total         float64     `json:"total"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
