package bizcore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bizcore/client-go/httplog"
)

// requestConfig is the per-call state assembled from RequestOptions and
// resolved once before the first attempt.
type requestConfig struct {
	query       map[string]string
	header      http.Header
	body        any
	rawBody     []byte
	contentType string
	timeout     time.Duration
	retry       RetryPolicy
}

// RequestOption customizes a single request.
type RequestOption func(*requestConfig)

// WithQuery merges the given parameters into the request's query string.
// Parameters with empty values are omitted from the URL.
func WithQuery(query map[string]string) RequestOption {
	return func(cfg *requestConfig) {
		if cfg.query == nil {
			cfg.query = make(map[string]string, len(query))
		}
		for k, v := range query {
			cfg.query[k] = v
		}
	}
}

// WithQueryValue sets a single query parameter.
func WithQueryValue(key, value string) RequestOption {
	return func(cfg *requestConfig) {
		if cfg.query == nil {
			cfg.query = make(map[string]string, 1)
		}
		cfg.query[key] = value
	}
}

// WithHeader sets a request header. Headers set here win over the ones the
// client would set automatically.
func WithHeader(key, value string) RequestOption {
	return func(cfg *requestConfig) {
		if cfg.header == nil {
			cfg.header = make(http.Header)
		}
		cfg.header.Set(key, value)
	}
}

// WithBody attaches a JSON request body.
func WithBody(body any) RequestOption {
	return func(cfg *requestConfig) {
		cfg.body = body
	}
}

// WithRequestTimeout overrides the client's per-attempt timeout for this
// request only.
func WithRequestTimeout(timeout time.Duration) RequestOption {
	return func(cfg *requestConfig) {
		cfg.timeout = timeout
	}
}

// WithRetry overrides the retry policy for this request.
func WithRetry(policy RetryPolicy) RequestOption {
	return func(cfg *requestConfig) {
		cfg.retry = policy
	}
}

// Response is the successful outcome of a request. Body is nil for 204
// responses and for any response with an empty body.
type Response struct {
	StatusCode  int
	URL         string
	Header      http.Header
	ContentType string
	Body        []byte
}

// IsJSON reports whether the response declared a JSON content type.
func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType, "application/json")
}

// Request executes a call through the client and decodes the response into T.
// A 204 or empty body yields the zero value of T. JSON responses are decoded;
// for any other content type T must be string, which receives the raw body
// text. Failures are always *APIError.
func Request[T any](ctx context.Context, c *Client, method, endpoint string, opts ...RequestOption) (T, error) {
	var out T
	res, err := c.Do(ctx, method, endpoint, opts...)
	if err != nil {
		return out, err
	}
	if res == nil || len(res.Body) == 0 {
		return out, nil
	}

	if !res.IsJSON() {
		if s, ok := any(&out).(*string); ok {
			*s = string(res.Body)
			return out, nil
		}
	}
	if err := decodeResponse(res, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// decodeResponse unmarshals a successful response body into v. An empty body
// leaves v untouched. A body that fails to decode surfaces as a classified
// error, never a bare json error.
func decodeResponse(res *Response, v any) error {
	if res == nil || len(res.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.Body, v); err != nil {
		return &APIError{
			StatusCode:  res.StatusCode,
			RawMessage:  fmt.Sprintf("decode response: %v", err),
			URL:         res.URL,
			Category:    CategoryUnknown,
			UserMessage: "Something went wrong. Please try again.",
		}
	}
	return nil
}

// Do executes one logical request: it builds the URL, resolves the retry
// policy from the method's idempotency, attaches the credential, runs the
// attempt loop and classifies any failure. Every outcome produces exactly
// one terminal log event (response or error), however many retries preceded
// it, and every returned error is an *APIError.
func (c *Client) Do(ctx context.Context, method, endpoint string, opts ...RequestOption) (*Response, error) {
	cfg := &requestConfig{timeout: c.timeout}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.timeout <= 0 {
		cfg.timeout = c.timeout
	}

	fullURL := buildURL(c.baseURL, c.namespace, endpoint, cfg.query)
	retryCfg := cfg.retry.resolve(method, c.retry)
	requestID := uuid.NewString()

	if cfg.body != nil {
		encoded, err := json.Marshal(cfg.body)
		if err != nil {
			return nil, &APIError{
				RawMessage:  fmt.Sprintf("encode request body: %v", err),
				URL:         fullURL,
				Category:    CategoryUnknown,
				UserMessage: "Something went wrong. Please try again.",
			}
		}
		cfg.rawBody = encoded
		if cfg.contentType == "" {
			cfg.contentType = "application/json"
		}
	}

	c.log.Emit(httplog.Event{
		Kind:      httplog.KindRequest,
		RequestID: requestID,
		Method:    method,
		URL:       fullURL,
	})

	start := time.Now()
	res, err := c.executeWithRetry(ctx, method, fullURL, cfg, retryCfg, requestID)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		apiErr := toAPIError(err, fullURL)
		c.fireAuthSideEffects(apiErr)
		c.log.Emit(httplog.Event{
			Kind:       httplog.KindError,
			RequestID:  requestID,
			Method:     method,
			URL:        fullURL,
			StatusCode: apiErr.StatusCode,
			DurationMS: duration,
			Error:      apiErr.RawMessage,
		})
		return nil, apiErr
	}

	c.log.Emit(httplog.Event{
		Kind:       httplog.KindResponse,
		RequestID:  requestID,
		Method:     method,
		URL:        fullURL,
		StatusCode: res.StatusCode,
		DurationMS: duration,
	})
	return res, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, endpoint, opts...)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, endpoint string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, endpoint, opts...)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, endpoint string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, endpoint, opts...)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, endpoint string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, endpoint, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, endpoint, opts...)
}

// executeWithRetry is the bounded-attempt loop. Attempts are strictly
// sequential: attempt n+1 never starts before attempt n's outcome is known
// and its retry event logged.
func (c *Client) executeWithRetry(ctx context.Context, method, fullURL string, cfg *requestConfig, retryCfg RetryConfig, requestID string) (*Response, error) {
	var lastErr *APIError
	for attempt := 1; ; attempt++ {
		res, err := c.attempt(ctx, method, fullURL, cfg)
		if err == nil {
			return res, nil
		}
		lastErr = toAPIError(err, fullURL)

		if attempt >= retryCfg.MaxAttempts || !retryCfg.shouldRetry(lastErr.Category) {
			return nil, lastErr
		}

		c.log.Emit(httplog.Event{
			Kind:        httplog.KindRetry,
			RequestID:   requestID,
			Method:      method,
			URL:         fullURL,
			StatusCode:  lastErr.StatusCode,
			Error:       lastErr.RawMessage,
			Attempt:     attempt,
			MaxAttempts: retryCfg.MaxAttempts,
		})

		if err := sleepBackoff(ctx, retryCfg.delay(attempt)); err != nil {
			return nil, lastErr
		}
	}
}

// attempt performs one network call bounded by the per-attempt deadline. A
// deadline breach surfaces as a status-0 error whose message classifies as
// timeout; any other transport failure classifies as network. Non-2xx
// responses are converted to classified errors via the backend's error
// envelope.
func (c *Client) attempt(ctx context.Context, method, fullURL string, cfg *requestConfig) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var bodyReader io.Reader
	if cfg.rawBody != nil {
		bodyReader = bytes.NewReader(cfg.rawBody)
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, fullURL, bodyReader)
	if err != nil {
		return nil, newAPIError(0, fmt.Sprintf("create request: %v", err), fullURL)
	}

	req.Header.Set("Accept", "application/json")
	for k, vs := range cfg.header {
		req.Header[k] = vs
	}
	// Content-Type is only set when a body is present, and never overrides
	// a caller-supplied value.
	if cfg.contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", cfg.contentType)
	}
	if c.authMode == AuthBearer && req.Header.Get("Authorization") == "" {
		if credential := c.session.get(); credential != "" {
			req.Header.Set("Authorization", "Bearer "+credential)
		}
	}

	httpRes, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(attemptCtx, ctx, err, cfg.timeout, fullURL)
	}
	defer httpRes.Body.Close()

	body, err := io.ReadAll(httpRes.Body)
	if err != nil {
		return nil, transportError(attemptCtx, ctx, err, cfg.timeout, fullURL)
	}

	if httpRes.StatusCode < 200 || httpRes.StatusCode > 299 {
		return nil, newAPIError(httpRes.StatusCode, parseErrorEnvelope(body), fullURL)
	}

	res := &Response{
		StatusCode:  httpRes.StatusCode,
		URL:         fullURL,
		Header:      httpRes.Header,
		ContentType: httpRes.Header.Get("Content-Type"),
	}
	if httpRes.StatusCode != http.StatusNoContent && len(body) > 0 {
		res.Body = body
	}
	return res, nil
}

// transportError distinguishes a per-attempt deadline breach from other
// transport failures. Only the attempt's own deadline counts as a timeout;
// a cancelled parent context stays a network failure, which the retry loop's
// context-aware sleep then cuts short.
func transportError(attemptCtx, parentCtx context.Context, err error, timeout time.Duration, fullURL string) *APIError {
	if attemptCtx.Err() == context.DeadlineExceeded && parentCtx.Err() == nil {
		return newAPIError(0, fmt.Sprintf("request timed out after %v", timeout), fullURL)
	}
	return newAPIError(0, err.Error(), fullURL)
}

// parseErrorEnvelope extracts the backend's {"detail": "..."} message,
// falling back to a generic message when the body is not the expected shape.
// The fallback is deliberate: a malformed error body must never crash error
// handling.
func parseErrorEnvelope(body []byte) string {
	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		return envelope.Detail
	}
	return "Unknown error"
}

// toAPIError guarantees the orchestrator never propagates an unclassified
// error.
func toAPIError(err error, fullURL string) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return newAPIError(0, err.Error(), fullURL)
}
