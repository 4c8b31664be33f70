package client

import (
	"context"

	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/domain"
)

// MockExecutor is a hand-written test double for the Executor interface.
type MockExecutor struct {
	ExecuteFunc     func(ctx context.Context, req *domain.Request) (*domain.Response, error)
	HealthCheckFunc func(ctx context.Context, creds domain.Credentials) (*domain.Response, error)

	ExecuteCalls     int
	HealthCheckCalls int
}

func (m *MockExecutor) Execute(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	m.ExecuteCalls++
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockExecutor) HealthCheck(ctx context.Context, creds domain.Credentials) (*domain.Response, error) {
	m.HealthCheckCalls++
	if m.HealthCheckFunc != nil {
		return m.HealthCheckFunc(ctx, creds)
	}
	return nil, nil
}
