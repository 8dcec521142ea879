package httplog

import (
	"net/url"
	"strings"
)

// Mask replaces the value of any query parameter whose name matches the
// sensitive-key list.
const Mask = "[REDACTED]"

// sensitiveKeySubstrings are matched case-insensitively as substrings of
// query-parameter names. Matching errs on the side of redacting too much:
// a false positive hides a harmless value, a false negative leaks a secret.
var sensitiveKeySubstrings = []string{
	"token",
	"secret",
	"password",
	"passwd",
	"apikey",
	"api_key",
	"key",
	"auth",
	"session",
	"credential",
	"email",
	"phone",
	"card",
	"ssn",
	"account",
}

// Redact returns rawURL with every sensitive query-parameter value replaced
// by Mask. URLs that cannot be parsed are returned unchanged; a URL that
// parses is always fully redacted.
func Redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.RawQuery == "" {
		return rawURL
	}

	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return rawURL
	}

	changed := false
	for key, values := range q {
		if !isSensitiveKey(key) {
			continue
		}
		for i := range values {
			values[i] = Mask
		}
		changed = true
	}
	if !changed {
		return rawURL
	}

	u.RawQuery = q.Encode()
	return u.String()
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeySubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
