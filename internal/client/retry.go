package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/domain"
	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/retry"
)

// RetryClient decorates an Executor with the retry policy. The request's own
// retry budget drives the loop: the initial attempt plus up to MaxRetries
// retries, each recorded through IncrementRetry.
type RetryClient struct {
	inner  Executor
	policy *retry.Policy
	logger *slog.Logger
}

func NewRetryClient(inner Executor, policy *retry.Policy, logger *slog.Logger) *RetryClient {
	return &RetryClient{
		inner:  inner,
		policy: policy,
		logger: logger,
	}
}

// Execute runs the request, retrying retryable outcomes until success, a
// terminal outcome, context cancellation or an exhausted retry budget. The
// policy's budget is stamped onto the request, so configuration wins over the
// constructor default. After exhaustion the last response is surfaced as-is,
// or the last error wrapped as MAX_RETRIES_EXCEEDED.
func (r *RetryClient) Execute(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	if r.policy.MaxRetries > 0 {
		req.MaxRetries = r.policy.MaxRetries
	}

	var lastResp *domain.Response
	var lastErr error

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := r.inner.Execute(ctx, req)
		if err == nil {
			if resp.IsSuccess() || !r.policy.ShouldRetry(resp, nil) {
				return resp, nil
			}
			lastResp, lastErr = resp, nil
		} else {
			if !r.policy.ShouldRetry(nil, err) {
				return nil, err
			}
			lastResp, lastErr = nil, err
		}

		if !req.CanRetry() {
			break
		}
		if err := req.IncrementRetry(); err != nil {
			break
		}

		delay := r.policy.DelayForAttempt(req.RetryCount)
		r.logger.Warn("retrying request",
			"request_id", req.ID,
			"retry_count", req.RetryCount,
			"max_retries", req.MaxRetries,
			"delay", delay,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, &domain.Error{
		Code:    domain.ErrCodeMaxRetries,
		Message: "maximum retries exceeded",
		Err:     lastErr,
	}
}

// HealthCheck probes the API once without consuming any retry budget.
func (r *RetryClient) HealthCheck(ctx context.Context, creds domain.Credentials) (*domain.Response, error) {
	return r.inner.HealthCheck(ctx, creds)
}
