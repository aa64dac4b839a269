// internal/workers/verification/aggregate-verification-score/models.go
package aggregateverificationscore

import "field-verification/internal/models"

type Input struct {
	ApplicationID string             `json:"applicationId"`
	ProcessID     string             `json:"processId"`
	Steps         []models.StepScore `json:"steps"`
}

type Output struct {
	Total     float64            `json:"total"`
	StepCount int                `json:"stepCount"`
	Steps     []models.StepScore `json:"steps"`
	UpdatedAt string             `json:"updatedAt"`
}
