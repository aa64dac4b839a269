// internal/workers/verification/notify-verification-alert/config.go
package notifyverificationalert

import "time"

type Config struct {
	Timeout       time.Duration
	SMSEnabled    bool
	EmailEnabled  bool
	SenderID      string
	FromEmail     string
	ReviewerEmail string
	// RatePerMinute caps alerts across all channels; 0 disables the limit.
	RatePerMinute float64
	Burst         int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		SMSEnabled:    false,
		EmailEnabled:  false,
		RatePerMinute: 30,
		Burst:         5,
	}
}
