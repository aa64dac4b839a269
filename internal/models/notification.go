// internal/models/notification.go
package models

// Notification is a reviewer alert raised for a failed or doubtful verification.
type Notification struct {
	ID             string                 `json:"id"`
	ApplicationID  string                 `json:"applicationId"`
	VerificationID string                 `json:"verificationId"`
	Type           string                 `json:"type"`    // "verification_alert"
	Channel        string                 `json:"channel"` // "email", "sms"
	Status         string                 `json:"status"`  // "sent", "failed", "disabled", "throttled"
	Payload        map[string]interface{} `json:"payload"`
	SentAt         string                 `json:"sentAt"`
	CreatedAt      string                 `json:"createdAt"`
}

type NotificationTemplate struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
