// internal/workers/verification/compare-document-fields/config.go
package comparedocumentfields

import (
	"time"

	"field-verification/internal/verification/compare"
)

type Config struct {
	Timeout time.Duration
	Compare compare.Options
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Compare: compare.DefaultOptions(),
	}
}
