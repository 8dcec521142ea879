package bizcore

import (
	"io"
	"net/http"
	"time"

	"github.com/bizcore/client-go/httplog"
)

// Option configures the client at construction.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. In cookie mode a jar is added if
// the client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the default per-attempt timeout.
// Default: 10 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRetryConfig sets the default retry configuration applied to idempotent
// requests. Invalid values are clamped, not rejected.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithAuthMode selects bearer-token or cookie-session credential transport.
// Default: AuthBearer.
func WithAuthMode(mode AuthMode) Option {
	return func(c *Client) {
		c.authMode = mode
	}
}

// WithCredential starts the client already signed in. Only meaningful in
// bearer mode; cookie-mode sessions require the SignIn round-trip.
func WithCredential(credential string) Option {
	return func(c *Client) {
		c.session.set(credential)
	}
}

// WithAPINamespace overrides the fixed namespace segment inserted before
// relative endpoint paths. Default: "/api".
func WithAPINamespace(namespace string) Option {
	return func(c *Client) {
		c.namespace = namespace
	}
}

// WithLogWriter redirects the built-in console log output, e.g. to silence
// it in tests or route it through the host application's writer.
func WithLogWriter(w io.Writer) Option {
	return func(c *Client) {
		c.log = httplog.NewWithWriter(w)
	}
}
