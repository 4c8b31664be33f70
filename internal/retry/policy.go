// Package retry decides whether and when a failed call should be attempted
// again. It performs no I/O of its own.
package retry

import (
	"math"
	"time"

	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/domain"
)

// Policy computes exponential-backoff delays and classifies outcomes as
// retryable or terminal.
type Policy struct {
	MaxRetries    int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NewPolicy returns a policy with the default budget: 3 retries, 1s base
// delay doubling up to 10s.
func NewPolicy() *Policy {
	return &Policy{
		MaxRetries:    3,
		BaseDelay:     time.Second,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
	}
}

// NewPolicyWith builds a policy from configuration, falling back to the
// defaults for any zero value.
func NewPolicyWith(maxRetries int, baseDelay, maxDelay time.Duration, backoffFactor float64) *Policy {
	p := NewPolicy()
	if maxRetries > 0 {
		p.MaxRetries = maxRetries
	}
	if baseDelay > 0 {
		p.BaseDelay = baseDelay
	}
	if maxDelay > 0 {
		p.MaxDelay = maxDelay
	}
	if backoffFactor > 0 {
		p.BackoffFactor = backoffFactor
	}
	return p
}

// ShouldRetryStatus reports whether a repeated attempt is worthwhile for the
// given status code. A non-positive code means no response was obtained at
// all, which is treated as retryable.
func (p *Policy) ShouldRetryStatus(statusCode int) bool {
	if statusCode <= 0 {
		return true
	}
	return domain.IsRetryableStatus(statusCode)
}

// ShouldRetry unifies retry triggering for transport failures and logical
// API failures. Validation and retries-exhausted errors are terminal;
// connection and timeout errors are retryable; responses follow the
// retryable status set.
func (p *Policy) ShouldRetry(resp *domain.Response, err error) bool {
	if err != nil {
		if domain.IsValidationError(err) || domain.IsMaxRetriesError(err) {
			return false
		}
		return domain.IsConnectionError(err) || domain.IsTimeoutError(err)
	}
	if resp == nil {
		return true
	}
	return resp.IsRetryable()
}

// DelayForAttempt returns min(MaxDelay, BaseDelay * BackoffFactor^(n-1)).
// Attempts are numbered from 1.
func (p *Policy) DelayForAttempt(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(p.BaseDelay) * math.Pow(p.BackoffFactor, float64(attempt-1))
	if delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(delay)
}
