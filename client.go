package bizcore

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/bizcore/client-go/httplog"
)

// DefaultTimeout bounds each individual attempt unless overridden per client
// or per request.
const DefaultTimeout = 10 * time.Second

// Environment variables read by NewFromEnv.
const (
	EnvBaseURL  = "BIZCORE_BASE_URL"
	EnvAPIToken = "BIZCORE_API_TOKEN"
	EnvAuthMode = "BIZCORE_AUTH_MODE"
)

// Client is the shared request core every domain wrapper funnels through.
// It owns URL construction, timeout enforcement, retry policy, error
// classification, redacted logging and auth-failure broadcasting. All state
// (credential, log sink, auth listener) is per-client, so independent
// clients never leak into each other.
type Client struct {
	baseURL    string
	namespace  string
	httpClient *http.Client
	timeout    time.Duration
	retry      RetryConfig
	authMode   AuthMode
	log        *httplog.Logger
	session    *session
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	c := &Client{
		baseURL:   baseURL,
		namespace: defaultNamespace,
		timeout:   DefaultTimeout,
		retry:     DefaultRetryConfig(),
		authMode:  AuthBearer,
		log:       httplog.New(),
		session:   &session{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.retry = c.retry.normalized()

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.authMode == AuthCookie && c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}

	return c, nil
}

// NewFromEnv creates a client from environment variables, loading a .env
// file first when one is present. BIZCORE_BASE_URL is required;
// BIZCORE_API_TOKEN pre-populates the credential and BIZCORE_AUTH_MODE may
// select cookie mode. Explicit options still win over the environment.
func NewFromEnv(opts ...Option) (*Client, error) {
	_ = godotenv.Load()

	baseURL := os.Getenv(EnvBaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("%w: set %s", ErrMissingBaseURL, EnvBaseURL)
	}

	envOpts := []Option{}
	if mode := os.Getenv(EnvAuthMode); mode != "" {
		envOpts = append(envOpts, WithAuthMode(AuthMode(mode)))
	}
	if token := os.Getenv(EnvAPIToken); token != "" {
		envOpts = append(envOpts, WithCredential(token))
	}

	return New(baseURL, append(envOpts, opts...)...)
}

// OnLogEvent registers an external log sink, replacing any previous one. The
// built-in console logger keeps firing regardless. The returned function
// unregisters the sink.
func (c *Client) OnLogEvent(sink httplog.Sink) func() {
	return c.log.SetSink(sink)
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}
