package domain

import "strings"

// Method is an HTTP method supported by the client
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
	MethodPatch  Method = "PATCH"
)

// IsWrite reports whether the method carries a request body.
func (m Method) IsWrite() bool {
	switch m {
	case MethodPost, MethodPut, MethodPatch:
		return true
	default:
		return false
	}
}

// Endpoint identifies where a request is sent
type Endpoint struct {
	Path    string
	Method  Method
	BaseURL string
}

// NewEndpoint builds an Endpoint, normalizing the path to start with "/".
// The base URL must use https.
func NewEndpoint(path string, method Method, baseURL string) (Endpoint, error) {
	if !strings.HasPrefix(baseURL, "https://") {
		return Endpoint{}, NewValidationError("base URL must start with https://")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return Endpoint{
		Path:    path,
		Method:  method,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// FullURL returns the complete URL for the endpoint
func (e Endpoint) FullURL() string {
	return e.BaseURL + e.Path
}

func (e Endpoint) String() string {
	return string(e.Method) + " " + e.FullURL()
}
