package domain

import "time"

// Status represents the current state of a request in its lifecycle
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSuccess    Status = "SUCCESS"
	StatusFailed     Status = "FAILED"
	StatusRetrying   Status = "RETRYING"
)

// File is one attachment sent as a multipart form part.
type File struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     []byte
}

// Request describes one pending call to the external API.
//
// The request is owned by the caller for the duration of one call; the
// execution client only mutates Status and RetryCount.
type Request struct {
	ID          string
	Endpoint    Endpoint
	Headers     map[string]string
	Body        map[string]string
	QueryParams map[string][]string
	Files       []File

	CreatedAt  time.Time
	Status     Status
	RetryCount int
	MaxRetries int
}

// NewRequest builds a request in the Pending state.
//
// Write methods (POST, PUT, PATCH) must carry a body or files; anything else
// is rejected up front since the API would refuse it anyway.
func NewRequest(id string, endpoint Endpoint) (*Request, error) {
	return newRequest(id, endpoint, nil, nil, nil)
}

// NewRequestWithBody builds a request carrying a body, query parameters and
// optional file attachments.
func NewRequestWithBody(id string, endpoint Endpoint, body map[string]string, query map[string][]string, files []File) (*Request, error) {
	return newRequest(id, endpoint, body, query, files)
}

func newRequest(id string, endpoint Endpoint, body map[string]string, query map[string][]string, files []File) (*Request, error) {
	if id == "" {
		return nil, NewValidationError("request id cannot be empty")
	}
	if endpoint.Method.IsWrite() && len(body) == 0 && len(files) == 0 {
		return nil, NewValidationError("method %s requires a body or files", endpoint.Method)
	}
	return &Request{
		ID:          id,
		Endpoint:    endpoint,
		Headers:     make(map[string]string),
		Body:        body,
		QueryParams: query,
		Files:       files,
		CreatedAt:   time.Now(),
		Status:      StatusPending,
		MaxRetries:  3,
	}, nil
}

func (r *Request) CanRetry() bool {
	return r.RetryCount < r.MaxRetries
}

func (r *Request) IsMultipart() bool {
	return len(r.Files) > 0
}

func (r *Request) HasBody() bool {
	return len(r.Body) > 0
}

func (r *Request) HasQueryParams() bool {
	return len(r.QueryParams) > 0
}

func (r *Request) MarkInProgress() {
	r.Status = StatusInProgress
}

func (r *Request) MarkSuccess() {
	r.Status = StatusSuccess
}

func (r *Request) MarkFailed() {
	r.Status = StatusFailed
}

// IncrementRetry moves the request into the Retrying state. Once the retry
// budget is spent it returns a MAX_RETRIES_EXCEEDED error instead.
func (r *Request) IncrementRetry() error {
	if !r.CanRetry() {
		return NewMaxRetriesError(r.MaxRetries)
	}
	r.RetryCount++
	r.Status = StatusRetrying
	return nil
}

func (r *Request) AddHeader(key, value string) {
	r.Headers[key] = value
}

func (r *Request) RemoveHeader(key string) {
	delete(r.Headers, key)
}

// LogAttrs returns the loggable view of the request
func (r *Request) LogAttrs() map[string]any {
	return map[string]any{
		"request_id":  r.ID,
		"endpoint":    r.Endpoint.String(),
		"method":      string(r.Endpoint.Method),
		"status":      string(r.Status),
		"retry_count": r.RetryCount,
		"has_body":    r.HasBody(),
		"has_files":   r.IsMultipart(),
	}
}
