// internal/workers/verification/aggregate-verification-score/config.go
package aggregateverificationscore

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
