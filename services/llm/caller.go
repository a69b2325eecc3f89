package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"taskmos/config"

	"go.uber.org/zap"
)

const (
	backoffBase = 1 * time.Second
	backoffCap  = 30 * time.Second
	// jitterFraction is the maximum extra delay added on top of the base
	// schedule, as a fraction of the computed delay.
	jitterFraction = 0.2
)

// BackoffDelay returns the delay before retry attempt n (n >= 1). The
// schedule is deterministic given the jitter input in [0, 1).
func BackoffDelay(attempt int, jitter float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	shift := attempt - 1
	// 2^5 seconds already exceeds the cap; larger shifts would overflow.
	if shift > 5 {
		shift = 5
	}
	delay := backoffBase << shift
	if delay > backoffCap {
		delay = backoffCap
	}
	return delay + time.Duration(jitter*jitterFraction*float64(delay))
}

// Caller wraps a Backend with a per-attempt timeout and bounded,
// classified retries. Only RetryableError triggers another attempt;
// FatalError and semantic failures (unparseable response) surface
// immediately.
type Caller struct {
	Backend     Backend
	MaxAttempts int
	Timeout     time.Duration

	// Sleep and Jitter are injectable so retry behavior is testable
	// without real delays.
	Sleep  func(time.Duration)
	Jitter func() float64
}

// NewCaller builds a Caller with the configured attempt cap and timeout.
func NewCaller(backend Backend) *Caller {
	attempts := config.AppConfig.LLMMaxRetries
	if attempts < 1 {
		attempts = 1
	}
	timeout := time.Duration(config.AppConfig.LLMTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Caller{
		Backend:     backend,
		MaxAttempts: attempts,
		Timeout:     timeout,
		Sleep:       time.Sleep,
		Jitter:      rand.Float64,
	}
}

// GenerateText performs one logical generation: it calls the backend,
// retrying transient failures, and returns the text field of the JSON
// response. An empty text is returned as-is; deciding what an empty
// render means belongs to the caller.
func (c *Caller) GenerateText(ctx context.Context, systemPrompt, userPayload string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := BackoffDelay(attempt-1, c.Jitter())
			zap.L().Warn("Retrying text generation",
				zap.String("backend", c.Backend.Name()),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
			)
			c.Sleep(delay)
		}

		callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
		raw, err := c.Backend.GenerateJSON(callCtx, systemPrompt, userPayload)
		cancel()

		if err != nil {
			if IsRetryable(err) {
				lastErr = err
				continue
			}
			return "", err
		}

		var res Result
		if err := json.Unmarshal([]byte(raw), &res); err != nil {
			return "", fmt.Errorf("failed to parse backend response: %w", err)
		}
		return strings.TrimSpace(res.Text), nil
	}

	return "", fmt.Errorf("backend retries exhausted after %d attempts: %w", c.MaxAttempts, lastErr)
}
