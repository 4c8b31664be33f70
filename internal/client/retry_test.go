package client_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/client"
	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/domain"
	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastPolicy() *retry.Policy {
	return retry.NewPolicyWith(3, time.Millisecond, 5*time.Millisecond, 2.0)
}

func newTestRequest(t *testing.T) *domain.Request {
	t.Helper()
	endpoint, err := domain.NewEndpoint("/v1/users", domain.MethodGet, "https://api.test.com")
	require.NoError(t, err)
	req, err := domain.NewRequest("req-1", endpoint)
	require.NoError(t, err)
	return req
}

func mustResponse(t *testing.T, statusCode int) *domain.Response {
	t.Helper()
	resp, err := domain.NewResponse("req-1", statusCode, nil, nil, nil, 0)
	require.NoError(t, err)
	return resp
}

func TestRetryClientRecoversAfterServerErrors(t *testing.T) {
	mock := &client.MockExecutor{}
	mock.ExecuteFunc = func(ctx context.Context, req *domain.Request) (*domain.Response, error) {
		if mock.ExecuteCalls <= 3 {
			return mustResponse(t, 503), nil
		}
		return mustResponse(t, 200), nil
	}

	rc := client.NewRetryClient(mock, fastPolicy(), discardLogger())
	resp, err := rc.Execute(context.Background(), newTestRequest(t))

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 4, mock.ExecuteCalls)
}

func TestRetryClientDoesNotRetryClientErrors(t *testing.T) {
	mock := &client.MockExecutor{
		ExecuteFunc: func(ctx context.Context, req *domain.Request) (*domain.Response, error) {
			return mustResponse(t, 400), nil
		},
	}

	rc := client.NewRetryClient(mock, fastPolicy(), discardLogger())
	resp, err := rc.Execute(context.Background(), newTestRequest(t))

	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, 1, mock.ExecuteCalls)
}

func TestRetryClientSurfacesLastResponseAfterExhaustion(t *testing.T) {
	mock := &client.MockExecutor{
		ExecuteFunc: func(ctx context.Context, req *domain.Request) (*domain.Response, error) {
			return mustResponse(t, 503), nil
		},
	}

	req := newTestRequest(t)
	rc := client.NewRetryClient(mock, fastPolicy(), discardLogger())
	resp, err := rc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
	assert.Equal(t, 4, mock.ExecuteCalls, "initial attempt plus three retries")
	assert.Equal(t, 3, req.RetryCount)
}

func TestRetryClientAppliesConfiguredBudget(t *testing.T) {
	mock := &client.MockExecutor{
		ExecuteFunc: func(ctx context.Context, req *domain.Request) (*domain.Response, error) {
			return mustResponse(t, 503), nil
		},
	}

	policy := retry.NewPolicyWith(5, time.Millisecond, 5*time.Millisecond, 2.0)
	req := newTestRequest(t)
	rc := client.NewRetryClient(mock, policy, discardLogger())

	resp, err := rc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
	assert.Equal(t, 6, mock.ExecuteCalls, "initial attempt plus five configured retries")
	assert.Equal(t, 5, req.MaxRetries)
	assert.Equal(t, 5, req.RetryCount)
}

func TestRetryClientWrapsTransportFailureExhaustion(t *testing.T) {
	dialErr := errors.New("dial tcp: connection refused")
	mock := &client.MockExecutor{
		ExecuteFunc: func(ctx context.Context, req *domain.Request) (*domain.Response, error) {
			return nil, domain.NewConnectionError("refused", dialErr)
		},
	}

	rc := client.NewRetryClient(mock, fastPolicy(), discardLogger())
	resp, err := rc.Execute(context.Background(), newTestRequest(t))

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, domain.IsMaxRetriesError(err))
	assert.ErrorIs(t, err, dialErr)
	assert.Equal(t, 4, mock.ExecuteCalls)
}

func TestRetryClientStopsOnTerminalError(t *testing.T) {
	mock := &client.MockExecutor{
		ExecuteFunc: func(ctx context.Context, req *domain.Request) (*domain.Response, error) {
			return nil, domain.NewValidationError("bad request id")
		},
	}

	rc := client.NewRetryClient(mock, fastPolicy(), discardLogger())
	_, err := rc.Execute(context.Background(), newTestRequest(t))

	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.Equal(t, 1, mock.ExecuteCalls)
}

func TestRetryClientHonorsContextDuringBackoff(t *testing.T) {
	mock := &client.MockExecutor{
		ExecuteFunc: func(ctx context.Context, req *domain.Request) (*domain.Response, error) {
			return mustResponse(t, 503), nil
		},
	}

	slow := retry.NewPolicyWith(3, 200*time.Millisecond, time.Second, 2.0)
	rc := client.NewRetryClient(mock, slow, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := rc.Execute(ctx, newTestRequest(t))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.ExecuteCalls)
}

func TestRetryClientHealthCheckDelegatesOnce(t *testing.T) {
	mock := &client.MockExecutor{
		HealthCheckFunc: func(ctx context.Context, creds domain.Credentials) (*domain.Response, error) {
			return mustResponse(t, 503), nil
		},
	}

	rc := client.NewRetryClient(mock, fastPolicy(), discardLogger())
	resp, err := rc.HealthCheck(context.Background(), domain.Credentials{})

	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
	assert.Equal(t, 1, mock.HealthCheckCalls)
}
