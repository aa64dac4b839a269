// internal/workers/verification/verify-officer-plate/models.go
package verifyofficerplate

import (
	"field-verification/internal/models"
	"field-verification/internal/verification/rccompare"
)

type Input struct {
	ApplicationID string `json:"applicationId"`
	ProcessID     string `json:"processId,omitempty"`
	// OCRTexts are the readings of the plate crop variants, in order.
	OCRTexts []string            `json:"ocrTexts"`
	Officer  models.OfficerInput `json:"officer"`
}

type Output struct {
	VerificationID string                `json:"verificationId"`
	VehicleNo      string                `json:"vehicleNo"`
	MatchedVariant int                   `json:"matchedVariant"`
	RecoveryMode   string                `json:"recoveryMode"`
	Vehicle        *models.VehicleRecord `json:"vehicle"`
	Decision       rccompare.Decision    `json:"decision"`
	StepScore      int                   `json:"stepScore"`
}
