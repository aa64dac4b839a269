// internal/workers/verification/recover-plate/config.go
package recoverplate

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
		Timeout: 5 * time.Second,
		Plate:   plate.DefaultOptions(),
	}
}
