package client

import (
	"context"

	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/domain"
)

// Executor runs fully-specified requests against the external API.
// Implemented by HTTPClient and decorated by RetryClient.
type Executor interface {
	Execute(ctx context.Context, req *domain.Request) (*domain.Response, error)
	HealthCheck(ctx context.Context, creds domain.Credentials) (*domain.Response, error)
}
