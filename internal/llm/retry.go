package llm

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/huimingz/commitgen-go/internal/config"
	"github.com/huimingz/commitgen-go/internal/log"
)

// ErrorType represents the classification of an error for retry purposes
type ErrorType int

const (
	// ErrorTypeRetryable indicates the error is transient and can be retried
	ErrorTypeRetryable ErrorType = iota
	// ErrorTypeNonRetryable indicates the error is permanent and should not be retried
	ErrorTypeNonRetryable
	// ErrorTypeUnknown indicates the error type is unknown (conservative: don't retry)
	ErrorTypeUnknown
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeRetryable:
		return "Retryable"
	case ErrorTypeNonRetryable:
		return "NonRetryable"
	default:
		return "Unknown"
	}
}

// HTTPStatusError is an interface for errors that have HTTP status codes
type HTTPStatusError interface {
	error
	HTTPStatusCode() int
}

// ClassifyError determines if an error is retryable based on its type and content
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeNonRetryable
	}

	if errors.Is(err, context.Canceled) {
		return ErrorTypeNonRetryable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeRetryable
	}

	var te *TransportError
	if errors.As(err, &te) {
		switch te.Kind {
		case KindNetwork:
			return ErrorTypeRetryable
		case KindHTTPStatus:
			return classifyHTTPStatus(te.StatusCode)
		default:
			// a proxy page or malformed body will not fix itself
			return ErrorTypeNonRetryable
		}
	}

	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return ErrorTypeRetryable
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrorTypeRetryable
	}

	var statusErr HTTPStatusError
	if errors.As(err, &statusErr) {
		return classifyHTTPStatus(statusErr.HTTPStatusCode())
	}

	errMsg := strings.ToLower(err.Error())
	for _, keyword := range []string{"context length", "context_length", "maximum context", "token limit", "tokens exceeded"} {
		if strings.Contains(errMsg, keyword) {
			return ErrorTypeNonRetryable
		}
	}
	if strings.Contains(errMsg, "timeout") {
		return ErrorTypeRetryable
	}

	return ErrorTypeUnknown
}

// classifyHTTPStatus classifies HTTP status codes
func classifyHTTPStatus(statusCode int) ErrorType {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return ErrorTypeRetryable
	case statusCode >= 500:
		return ErrorTypeRetryable
	case statusCode >= 400:
		return ErrorTypeNonRetryable
	default:
		return ErrorTypeUnknown
	}
}

// CalculateBackoff calculates the backoff duration for a retry attempt using exponential backoff
// Formula: min(base * 2^(attempt-1), max)
func CalculateBackoff(attempt int, base, max float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	backoff := base * math.Pow(2, float64(attempt-1))
	if backoff > max {
		backoff = max
	}

	return time.Duration(backoff * float64(time.Second))
}

// RetryConfig holds configuration for retry behavior
type RetryConfig struct {
	Enabled     bool    // Whether retry is enabled
	MaxAttempts int     // Maximum number of retry attempts
	BackoffBase float64 // Base backoff duration in seconds
	BackoffMax  float64 // Maximum backoff duration in seconds
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfigFrom(config.DefaultRetryConfig())
}

// RetryConfigFrom converts the file configuration into a RetryConfig.
func RetryConfigFrom(c *config.RetryConfig) RetryConfig {
	if c == nil {
		return DefaultRetryConfig()
	}
	return RetryConfig{
		Enabled:     c.Enabled,
		MaxAttempts: c.MaxAttempts,
		BackoffBase: c.BackoffBase,
		BackoffMax:  c.BackoffMax,
	}
}

// RetryableFuncWithResult is a function that can be retried and returns a result
type RetryableFuncWithResult[T any] func() (T, error)

// sleep waits for d or until ctx is done. Replaced in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// WithRetryResult executes fn, retrying retryable failures with exponential
// backoff up to cfg.MaxAttempts additional times.
func WithRetryResult[T any](ctx context.Context, cfg RetryConfig, fn RetryableFuncWithResult[T]) (T, error) {
	var zero T

	if !cfg.Enabled || cfg.MaxAttempts <= 0 {
		return fn()
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts+1; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		errType := ClassifyError(err)
		if errType != ErrorTypeRetryable || attempt > cfg.MaxAttempts {
			return zero, err
		}

		backoff := CalculateBackoff(attempt, cfg.BackoffBase, cfg.BackoffMax)
		log.Debug("Attempt %d failed (%v), retrying in %v", attempt, err, backoff)

		if err := sleep(ctx, backoff); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}
