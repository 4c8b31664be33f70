// Package signer produces the Authorization and supporting headers for the
// iFR Pro request-signing scheme (HMAC-SHA384 over a canonical request).
package signer

import (
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/domain"
)

const (
	// Algorithm is the fixed tag on the first line of the string to sign.
	Algorithm = "IFR-HMAC-SHA384"
	// TimestampHeader carries the RFC3339 signing timestamp on the wire.
	TimestampHeader = "x-ifrpro-ahora"

	// RFC3339 with microsecond precision and a Z suffix.
	timestampLayout = "2006-01-02T15:04:05.000000Z07:00"
)

// Signer assembles authentication headers for outbound requests.
type Signer struct {
	now func() time.Time
}

func New() *Signer {
	return &Signer{now: time.Now}
}

// NewWithClock builds a Signer with a fixed clock for deterministic tests.
func NewWithClock(now func() time.Time) *Signer {
	return &Signer{now: now}
}

// BuildAuthHeaders derives the headers that authenticate one request:
// Authorization, the timestamp header, Host and Content-Type. One fresh
// timestamp is generated per call and reused for both the canonical request
// and the string to sign.
func (s *Signer) BuildAuthHeaders(method domain.Method, rawURL string, headers map[string]string, body map[string]string, query map[string][]string, creds domain.Credentials) (map[string]string, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	host, err := extractHost(rawURL)
	if err != nil {
		return nil, err
	}

	timestamp := s.now().UTC().Format(timestampLayout)
	contentType := resolveContentType(headers)

	// Headers are rebuilt into a fresh map rather than mutated in place, so
	// the caller's map is never aliased by the signing path.
	merged := make(map[string]string, len(headers)+3)
	for key, value := range headers {
		merged[key] = value
	}
	merged["Host"] = host
	merged["Content-Type"] = contentType
	merged[TimestampHeader] = timestamp

	canonical := CanonicalRequest(method, rawURL, merged, body, query)

	sum := sha512.Sum384([]byte(canonical))
	canonicalHash := hex.EncodeToString(sum[:])

	shortDate := timestamp[:10]
	stringToSign := strings.Join([]string{
		Algorithm,
		timestamp,
		shortDate + "/" + creds.Region + "/" + creds.ServiceCode + "/" + requestTerminator,
		canonicalHash,
	}, "\n")

	signingKey := DeriveSigningKey(creds.SecretKey, shortDate, creds.Region, creds.ServiceCode)
	password := base64.StdEncoding.EncodeToString(hmacSHA384(signingKey, stringToSign))
	authorization := base64.StdEncoding.EncodeToString([]byte(creds.Account + ":" + password))

	return map[string]string{
		"Authorization": "Basic " + authorization,
		TimestampHeader: timestamp,
		"Host":          host,
		"Content-Type":  contentType,
	}, nil
}

// extractHost strips the scheme and takes everything up to the first slash.
func extractHost(rawURL string) (string, error) {
	host := strings.TrimPrefix(rawURL, "https://")
	host = strings.TrimPrefix(host, "http://")
	if slash := strings.Index(host, "/"); slash >= 0 {
		host = host[:slash]
	}
	if q := strings.Index(host, "?"); q >= 0 {
		host = host[:q]
	}
	if host == "" {
		return "", domain.NewValidationError("URL has no host: %s", rawURL)
	}
	return host, nil
}

// resolveContentType returns the caller-supplied Content-Type when present.
// Without one it synthesizes a multipart boundary value, even for non-file
// requests: the upstream service expects this default on every signed call.
func resolveContentType(headers map[string]string) string {
	for key, value := range headers {
		if strings.EqualFold(key, "Content-Type") {
			return value
		}
	}
	return "multipart/form-data; boundary=" + MultipartBoundary()
}

// MultipartBoundary generates a browser-style multipart boundary.
func MultipartBoundary() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "----WebKitFormBoundary" + token[:16]
}
