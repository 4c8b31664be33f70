// Package domain defines the request/response model for the signed API client.
package domain

// Credentials holds the four opaque values issued for one API account.
// They are created once at startup and never persisted by this module.
type Credentials struct {
	Account     string
	SecretKey   string
	ServiceCode string
	Region      string
}

// Validate checks the credential shape before any signing is attempted.
func (c Credentials) Validate() error {
	if c.Account == "" {
		return NewValidationError("account cannot be empty")
	}
	if c.SecretKey == "" {
		return NewValidationError("secret key cannot be empty")
	}
	if c.ServiceCode == "" {
		return NewValidationError("service code cannot be empty")
	}
	if len(c.Region) != 2 {
		return NewValidationError("region must be a 2-letter code")
	}
	return nil
}

// Masked returns a loggable view of the credentials. The secret key is
// truncated so it never appears verbatim in diagnostic output.
func (c Credentials) Masked() map[string]string {
	masked := "***"
	if len(c.SecretKey) > 6 {
		masked = c.SecretKey[:6] + "***"
	}
	return map[string]string{
		"account":      c.Account,
		"secret_key":   masked,
		"service_code": c.ServiceCode,
		"region":       c.Region,
	}
}
