package providers

import (
	"net/url"
	"strings"
)

// Base provides the name, credential and endpoint handling shared by
// REST-based providers. Embed it to satisfy Name and BaseURL.
type Base struct {
	name    string
	apiKey  string
	baseURL string
}

// Name returns the provider name.
func (b *Base) Name() string { return b.name }

// BaseURL returns the upstream endpoint the provider queries.
func (b *Base) BaseURL() string { return b.baseURL }

// redactedKey replaces credential values in a request URL so it can be logged.
const redactedKey = "REDACTED"

// RedactURL returns raw with the values of any credential-bearing query
// parameters replaced. Unparseable input is returned with everything after
// the first '?' dropped.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			return raw[:i]
		}
		return raw
	}
	q := u.Query()
	for name := range q {
		switch strings.ToLower(name) {
		case "apikey", "api_key", "token":
			q.Set(name, redactedKey)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
