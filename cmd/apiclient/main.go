package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/client"
	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/config"
	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/ratelimit"
	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/retry"
	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/signer"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	creds := cfg.Credentials.ToCredentials()
	if err := creds.Validate(); err != nil {
		logger.Error("invalid credentials", "error", err)
		os.Exit(1)
	}

	logger.Info("starting api client",
		"base_url", cfg.API.BaseURL,
		"credentials", creds.Masked(),
		"log_level", cfg.Logger.Level,
	)

	limiter := ratelimit.NewTokenBucket(cfg.RateLimit.Calls, cfg.RateLimit.Period)
	policy := retry.NewPolicyWith(
		cfg.Retry.MaxRetries,
		cfg.Retry.BaseDelay,
		cfg.Retry.MaxDelay,
		cfg.Retry.BackoffFactor,
	)

	httpClient := client.NewHTTPClient(cfg.API, creds, signer.New(), limiter, logger)
	retryClient := client.NewRetryClient(httpClient, policy, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()

	resp, err := retryClient.HealthCheck(ctx, creds)
	if err != nil {
		logger.Error("health check failed", "error", err)
		os.Exit(1)
	}

	logger.Info("health check completed",
		"status_code", resp.StatusCode,
		"response_time_ms", resp.ResponseTime.Milliseconds(),
		"remaining_calls", limiter.GetRemainingCalls(),
	)

	if !resp.IsSuccess() {
		logger.Error("api is not healthy", "status_code", resp.StatusCode, "message", resp.ErrorMessage())
		os.Exit(1)
	}
}
