// internal/workers/verification/lookup-vehicle/config.go
package lookupvehicle

import (
	"time"

	"field-verification/internal/verification/plate"
)

type Config struct {
	Timeout time.Duration
	// Source labels where records come from ("memory" or "postgres").
	Source string
	Plate  plate.Options
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Source:  "memory",
		Plate:   plate.DefaultOptions(),
	}
}
