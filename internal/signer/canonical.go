package signer

import (
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/domain"
)

// EmptyPayloadHash is the SHA-384 hex digest of the empty string, used for
// GET requests and requests without a body.
const EmptyPayloadHash = "38b060a751ac96384cd9327eb1b1e36a21fdb71114be07434c0cc7bf63f6e1da274edebfe76f65fbd51ad2f14898b95b"

// vendorHeaderPrefix marks the custom headers that must be signed.
const vendorHeaderPrefix = "x-ifrpro-"

// CanonicalRequest serializes a request into the deterministic string that is
// hashed and signed. The format is:
//
//	<METHOD>\n<URI>\n<QUERY>\n<HEADERS><SIGNED_HEADERS>\n<PAYLOAD_HASH>
//
// where HEADERS is a block of `name:value\n` lines followed directly by the
// `;`-joined signed-header list.
func CanonicalRequest(method domain.Method, rawURL string, headers map[string]string, body map[string]string, query map[string][]string) string {
	parts := []string{
		strings.ToUpper(string(method)),
		CanonicalURI(pathFromURL(rawURL)),
		CanonicalQuery(query),
		canonicalHeaders(headers),
		PayloadDigest(method, body),
	}
	return strings.Join(parts, "\n")
}

// pathFromURL extracts the path component from a full URL, dropping the
// scheme, host and query string.
func pathFromURL(rawURL string) string {
	rest := strings.TrimPrefix(rawURL, "https://")
	rest = strings.TrimPrefix(rest, "http://")

	slash := strings.Index(rest, "/")
	if slash < 0 {
		return "/"
	}
	path := rest[slash:]
	if q := strings.Index(path, "?"); q >= 0 {
		path = path[:q]
	}
	return path
}

// CanonicalURI percent-encodes the path per RFC 3986 with `/` preserved.
func CanonicalURI(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	path = strings.TrimLeft(path, "/")
	encoded := percentEncode(path, false)
	return "/" + strings.ReplaceAll(encoded, "%2F", "/")
}

// CanonicalQuery renders query parameters as sorted `k=v` pairs joined by
// `&`. Repeated keys are expanded into one pair per value, values sorted.
func CanonicalQuery(query map[string][]string) string {
	if len(query) == 0 {
		return ""
	}

	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var pairs []string
	for _, key := range keys {
		values := query[key]
		if len(values) == 0 {
			pairs = append(pairs, percentEncode(key, true)+"=")
			continue
		}
		sorted := make([]string, len(values))
		copy(sorted, values)
		sort.Strings(sorted)
		for _, value := range sorted {
			pairs = append(pairs, percentEncode(key, true)+"="+percentEncode(value, true))
		}
	}
	return strings.Join(pairs, "&")
}

// canonicalHeaders keeps only host, content-type and the vendor headers,
// normalizes their values and renders the headers block plus the
// signed-header list.
func canonicalHeaders(headers map[string]string) string {
	signed := make(map[string]string)

	for key, value := range headers {
		name := strings.ToLower(key)
		if name != "host" && name != "content-type" && !strings.HasPrefix(name, vendorHeaderPrefix) {
			continue
		}

		// collapse whitespace runs to one space
		value = strings.Join(strings.Fields(value), " ")

		vals := strings.Split(value, ",")
		for i := range vals {
			vals[i] = strings.TrimSpace(vals[i])
		}
		sort.Strings(vals)

		signed[name] = strings.Join(vals, ",")
	}

	names := make([]string, 0, len(signed))
	for name := range signed {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(signed[name])
		b.WriteString("\n")
	}
	b.WriteString(strings.Join(names, ";"))
	return b.String()
}

// PayloadDigest returns the SHA-384 hex digest of the body serialized as
// compact JSON with sorted keys and unicode left unescaped. GET requests and
// empty bodies use the fixed empty-string digest.
func PayloadDigest(method domain.Method, body map[string]string) string {
	if strings.ToUpper(string(method)) == "GET" || len(body) == 0 {
		return EmptyPayloadHash
	}

	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// map keys are emitted in sorted order; marshalling a string map cannot fail
	_ = enc.Encode(body)
	compact := strings.TrimSuffix(buf.String(), "\n")

	sum := sha512.Sum384([]byte(compact))
	return hex.EncodeToString(sum[:])
}

// FormField is one entry of a form-style body descriptor. File and disabled
// entries are excluded from the payload digest.
type FormField struct {
	Key      string
	Value    string
	File     bool
	Disabled bool
}

// PayloadDigestFields filters form-field descriptors down to the plain text
// fields and digests them like a map body.
func PayloadDigestFields(method domain.Method, fields []FormField) string {
	body := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.File || f.Disabled {
			continue
		}
		body[f.Key] = f.Value
	}
	return PayloadDigest(method, body)
}

// percentEncode encodes every byte outside the RFC 3986 unreserved set with
// uppercase hex. keepSlash leaves `/` untouched (query encoding).
func percentEncode(s string, keepSlash bool) string {
	const upperhex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.', c == '~':
			b.WriteByte(c)
		case c == '/' && keepSlash:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xF])
		}
	}
	return b.String()
}
