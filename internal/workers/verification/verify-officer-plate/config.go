// internal/workers/verification/verify-officer-plate/config.go
package verifyofficerplate

import (
	"time"

	"field-verification/internal/verification/plate"
)

type Config struct {
	Timeout time.Duration
	Plate   plate.Options
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
		Plate:   plate.DefaultOptions(),
	}
}
