// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"field-verification/internal/common/errors"
	"field-verification/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client wraps the Zeebe gRPC client with connection retry and error mapping.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

// ClientConfig holds configuration for the Camunda/Zeebe client.
type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RetryConfig            *RetryConfig
}

// RetryConfig defines retry behavior for transient failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 10,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

// Connect dials the gateway and checks topology, retrying with exponential
// backoff until the broker answers or ctx is done.
func Connect(ctx context.Context, config *ClientConfig, log logger.Logger) (*Client, error) {
	if config.RetryConfig == nil {
		config.RetryConfig = DefaultRetryConfig
	}
	if config.ConnectionTimeout <= 0 {
		config.ConnectionTimeout = 10 * time.Second
	}

	c := &Client{config: config}
	_, err := c.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         config.GatewayAddress,
			UsePlaintextConnection: config.UsePlaintextConnection,
		})
		if err != nil {
			return nil, err
		}

		tctx, cancel := context.WithTimeout(ctx, config.ConnectionTimeout)
		defer cancel()
		if _, err := zeebeClient.NewTopologyCommand().Send(tctx); err != nil {
			zeebeClient.Close()
			log.Warn("zeebe broker not reachable", map[string]interface{}{
				"gateway": config.GatewayAddress,
				"error":   err.Error(),
			})
			return nil, err
		}

		c.client = zeebeClient
		return nil, nil
	}, "connect")
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetClient returns the raw Zeebe client for opening job workers.
func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ExecuteWithRetry runs commandFunc with exponential backoff. Only transient
// errors are retried.
func (c *Client) ExecuteWithRetry(
	ctx context.Context,
	commandFunc func(context.Context) (interface{}, error),
	operationName string,
) (interface{}, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.RetryConfig.MaxRetries; attempt++ {
		result, err := commandFunc(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !isRetryableZeebeError(err) || attempt == c.config.RetryConfig.MaxRetries {
			return nil, mapZeebeError(err, operationName, attempt)
		}

		delay := backoff(c.config.RetryConfig, attempt)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("operation %s cancelled after %d attempts: %w", operationName, attempt+1, ctx.Err())
		}
	}

	return nil, fmt.Errorf("operation %s failed after %d retries: %w", operationName, c.config.RetryConfig.MaxRetries, lastErr)
}

func backoff(rc *RetryConfig, attempt int) time.Duration {
	delay := rc.BaseDelay * time.Duration(1<<attempt)
	if delay > rc.MaxDelay || delay <= 0 {
		delay = rc.MaxDelay
	}
	return delay
}

func isRetryableZeebeError(err error) bool {
	msg := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// mapZeebeError converts Zeebe errors into standardized application errors.
func mapZeebeError(err error, operation string, attempt int) error {
	msg := err.Error()
	lowerMsg := strings.ToLower(msg)

	enhancedMsg := fmt.Sprintf("Zeebe operation '%s' failed", operation)
	if attempt > 0 {
		enhancedMsg += fmt.Sprintf(" after %d attempts", attempt+1)
	}
	wrapped := fmt.Errorf("%s: %s", enhancedMsg, msg)

	switch {
	case strings.Contains(lowerMsg, "timeout") ||
		strings.Contains(lowerMsg, "deadline exceeded"):
		return errors.NewTimeoutError("zeebe", wrapped)
	default:
		return errors.NewExternalServiceError("zeebe", wrapped)
	}
}

// HealthCheck performs a topology request against the broker.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("zeebe client not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}
