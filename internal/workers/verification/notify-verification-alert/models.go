// internal/workers/verification/notify-verification-alert/models.go
package notifyverificationalert

import "field-verification/internal/models"

const (
	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusDisabled  = "disabled"
	StatusSkipped   = "skipped"
	StatusThrottled = "throttled"
)

const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

type Input struct {
	ApplicationID  string   `json:"applicationId"`
	VerificationID string   `json:"verificationId"`
	Kind           string   `json:"kind"` // "document" or "plate"
	Verdict        string   `json:"verdict"`
	Score          float64  `json:"score,omitempty"`
	Reasons        []string `json:"reasons,omitempty"`
	OfficerPhone   string   `json:"officerPhone,omitempty"`
	ReviewerEmail  string   `json:"reviewerEmail,omitempty"`
}

type Output struct {
	NotificationID string                `json:"notificationId,omitempty"`
	Status         string                `json:"status"`
	Channels       []string              `json:"channels"`
	Deliveries     []models.Notification `json:"deliveries,omitempty"`
}
