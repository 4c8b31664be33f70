// Package client executes signed requests against the external API with
// rate limiting and retries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/config"
	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/domain"
	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/ratelimit"
	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/signer"
)

// HTTPClient signs and executes requests over a shared connection pool.
type HTTPClient struct {
	baseURL    string
	creds      domain.Credentials
	httpClient *http.Client
	signer     *signer.Signer
	limiter    *ratelimit.TokenBucket
	logger     *slog.Logger
}

func NewHTTPClient(cfg config.APIConfig, creds domain.Credentials, sgn *signer.Signer, limiter *ratelimit.TokenBucket, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		creds:   creds,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		signer:  sgn,
		limiter: limiter,
		logger:  logger,
	}
}

// Execute runs one request: sign, admit through the rate limiter, perform
// the transport call and classify the outcome into a Response.
func (c *HTTPClient) Execute(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	return c.execute(ctx, req, c.creds)
}

func (c *HTTPClient) execute(ctx context.Context, req *domain.Request, creds domain.Credentials) (*domain.Response, error) {
	switch req.Endpoint.Method {
	case domain.MethodGet, domain.MethodPost, domain.MethodPut, domain.MethodDelete, domain.MethodPatch:
	default:
		return nil, domain.NewUnsupportedMethodError(req.Endpoint.Method)
	}

	req.MarkInProgress()

	authHeaders, err := c.signer.BuildAuthHeaders(
		req.Endpoint.Method,
		req.Endpoint.FullURL(),
		req.Headers,
		req.Body,
		req.QueryParams,
		creds,
	)
	if err != nil {
		req.MarkFailed()
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Acquire(ctx); err != nil {
			req.MarkFailed()
			return nil, err
		}
	}

	start := time.Now()
	httpResp, err := c.do(ctx, req, authHeaders)
	elapsed := time.Since(start)

	if err != nil {
		req.MarkFailed()
		return nil, classifyTransportError(req, err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		req.MarkFailed()
		return nil, domain.NewConnectionError("error reading response body", err)
	}

	// best-effort JSON parse; anything else keeps Body nil with raw bytes
	var parsed map[string]any
	if len(rawBody) > 0 {
		if jsonErr := json.Unmarshal(rawBody, &parsed); jsonErr != nil {
			parsed = nil
		}
	}

	resp, err := domain.NewResponse(req.ID, httpResp.StatusCode, flattenHeaders(httpResp.Header), parsed, rawBody, elapsed)
	if err != nil {
		req.MarkFailed()
		return nil, err
	}

	if resp.IsSuccess() {
		req.MarkSuccess()
	} else {
		req.MarkFailed()
	}

	c.logger.Info("request completed",
		"request", req.LogAttrs(),
		"response", resp.LogAttrs(),
	)

	return resp, nil
}

func (c *HTTPClient) do(ctx context.Context, req *domain.Request, authHeaders map[string]string) (*http.Response, error) {
	fullURL := req.Endpoint.FullURL()
	if req.HasQueryParams() {
		fullURL += "?" + url.Values(req.QueryParams).Encode()
	}

	var bodyReader io.Reader
	var multipartContentType string

	switch {
	case req.IsMultipart():
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for key, value := range req.Body {
			if err := w.WriteField(key, value); err != nil {
				return nil, domain.NewValidationError("error encoding form field %q: %v", key, err)
			}
		}
		for _, f := range req.Files {
			part, err := w.CreatePart(filePartHeader(f))
			if err != nil {
				return nil, domain.NewValidationError("error encoding file %q: %v", f.FileName, err)
			}
			if _, err := part.Write(f.Content); err != nil {
				return nil, domain.NewValidationError("error writing file %q: %v", f.FileName, err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, domain.NewValidationError("error finalizing multipart body: %v", err)
		}
		bodyReader = &buf
		multipartContentType = w.FormDataContentType()

	case req.HasBody() && req.Endpoint.Method.IsWrite():
		form := url.Values{}
		for key, value := range req.Body {
			form.Set(key, value)
		}
		bodyReader = strings.NewReader(form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Endpoint.Method), fullURL, bodyReader)
	if err != nil {
		return nil, domain.NewValidationError("error creating request: %v", err)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	for key, value := range authHeaders {
		httpReq.Header.Set(key, value)
	}
	httpReq.Host = authHeaders["Host"]

	// Multipart bodies go out under the writer's own boundary; the signed
	// Content-Type stays out of the wire request, matching the upstream
	// service's expectations.
	if multipartContentType != "" {
		httpReq.Header.Set("Content-Type", multipartContentType)
	}

	return c.httpClient.Do(httpReq)
}

// HealthCheck issues a GET against the API root with the given credentials.
func (c *HTTPClient) HealthCheck(ctx context.Context, creds domain.Credentials) (*domain.Response, error) {
	endpoint, err := domain.NewEndpoint("/", domain.MethodGet, c.baseURL)
	if err != nil {
		return nil, err
	}
	req, err := domain.NewRequest(uuid.NewString(), endpoint)
	if err != nil {
		return nil, err
	}
	req.AddHeader("Accept", "application/json")
	return c.execute(ctx, req, creds)
}

// Get issues a GET request against the given path.
func (c *HTTPClient) Get(ctx context.Context, path string, query map[string][]string) (*domain.Response, error) {
	return c.call(ctx, domain.MethodGet, path, nil, query, nil)
}

// Post issues a POST request with a form body.
func (c *HTTPClient) Post(ctx context.Context, path string, body map[string]string) (*domain.Response, error) {
	return c.call(ctx, domain.MethodPost, path, body, nil, nil)
}

// Put issues a PUT request with a form body.
func (c *HTTPClient) Put(ctx context.Context, path string, body map[string]string) (*domain.Response, error) {
	return c.call(ctx, domain.MethodPut, path, body, nil, nil)
}

// Delete issues a DELETE request against the given path.
func (c *HTTPClient) Delete(ctx context.Context, path string) (*domain.Response, error) {
	return c.call(ctx, domain.MethodDelete, path, nil, nil, nil)
}

// PostWithFiles issues a multipart POST carrying form fields and files.
// Only the form fields participate in the signature.
func (c *HTTPClient) PostWithFiles(ctx context.Context, path string, body map[string]string, files []domain.File) (*domain.Response, error) {
	return c.call(ctx, domain.MethodPost, path, body, nil, files)
}

func (c *HTTPClient) call(ctx context.Context, method domain.Method, path string, body map[string]string, query map[string][]string, files []domain.File) (*domain.Response, error) {
	endpoint, err := domain.NewEndpoint(path, method, c.baseURL)
	if err != nil {
		return nil, err
	}
	req, err := domain.NewRequestWithBody(uuid.NewString(), endpoint, body, query, files)
	if err != nil {
		return nil, err
	}
	req.AddHeader("Accept", "application/json")
	return c.Execute(ctx, req)
}

func classifyTransportError(req *domain.Request, err error) error {
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}

	var urlErr *url.Error
	timeout := errors.Is(err, context.DeadlineExceeded)
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		timeout = true
	}
	if timeout {
		return domain.NewTimeoutError(fmt.Sprintf("timeout executing request %s", req.ID), err)
	}
	return domain.NewConnectionError(fmt.Sprintf("connection error executing request %s", req.ID), err)
}

func filePartHeader(f domain.File) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.FieldName, f.FileName))
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return h
}

func flattenHeaders(header http.Header) map[string]string {
	out := make(map[string]string, len(header))
	for key := range header {
		out[key] = header.Get(key)
	}
	return out
}
