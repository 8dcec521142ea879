package bizcore

import (
	"context"
	"net/http"
	"time"
)

// RetryConfig bounds the retry loop for one logical request, including all
// of its attempts.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the sleep before the second attempt; subsequent delays
	// double up to MaxDelay. No jitter is applied, so delays are
	// deterministic.
	BaseDelay time.Duration
	// MaxDelay caps the backoff.
	MaxDelay time.Duration
	// RetryOnServerError permits retrying 5xx responses.
	RetryOnServerError bool
	// RetryOnNetworkError permits retrying network failures and timeouts.
	RetryOnNetworkError bool
}

// DefaultRetryConfig returns the process-wide default applied to idempotent
// requests that carry no explicit retry policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:         3,
		BaseDelay:           300 * time.Millisecond,
		MaxDelay:            5 * time.Second,
		RetryOnServerError:  true,
		RetryOnNetworkError: true,
	}
}

// normalized clamps invalid values instead of failing: MaxAttempts to at
// least 1, and BaseDelay down to MaxDelay when the two are inverted.
func (c RetryConfig) normalized() RetryConfig {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.BaseDelay < 0 {
		c.BaseDelay = 0
	}
	if c.MaxDelay < 0 {
		c.MaxDelay = 0
	}
	if c.BaseDelay > c.MaxDelay {
		c.BaseDelay = c.MaxDelay
	}
	return c
}

// delay returns min(BaseDelay * 2^(attempt-1), MaxDelay) for the given
// just-failed attempt number (1-based).
func (c RetryConfig) delay(attempt int) time.Duration {
	d := c.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= c.MaxDelay {
			return c.MaxDelay
		}
	}
	if d > c.MaxDelay {
		return c.MaxDelay
	}
	return d
}

// shouldRetry reports whether a failure of the given category is eligible
// for another attempt. Auth failures never are: repeating a request the
// server already refused to authenticate cannot succeed.
func (c RetryConfig) shouldRetry(category Category) bool {
	switch category {
	case CategoryServer:
		return c.RetryOnServerError
	case CategoryNetwork, CategoryTimeout:
		return c.RetryOnNetworkError
	default:
		return false
	}
}

type retryMode int

const (
	retryModeDefault retryMode = iota
	retryModeDisabled
	retryModeForced
	retryModeCustom
)

// RetryPolicy selects how a single request resolves its RetryConfig. The
// zero value is RetryDefault.
type RetryPolicy struct {
	mode retryMode
	cfg  RetryConfig
}

// RetryDefault applies the client's default config to idempotent methods
// (GET, HEAD, OPTIONS) and disables retries for mutations. A mutation is
// never retried implicitly: the client must not double-submit a write the
// server may already have applied.
func RetryDefault() RetryPolicy { return RetryPolicy{mode: retryModeDefault} }

// RetryDisabled performs exactly one attempt.
func RetryDisabled() RetryPolicy { return RetryPolicy{mode: retryModeDisabled} }

// RetryForced applies the client's default config regardless of method. Use
// it only for mutations known to be idempotent server-side.
func RetryForced() RetryPolicy { return RetryPolicy{mode: retryModeForced} }

// RetryWith applies the given config regardless of method.
func RetryWith(cfg RetryConfig) RetryPolicy {
	return RetryPolicy{mode: retryModeCustom, cfg: cfg}
}

func isIdempotentMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// resolve collapses the policy into a concrete config for one request.
func (p RetryPolicy) resolve(method string, defaults RetryConfig) RetryConfig {
	switch p.mode {
	case retryModeDisabled:
		return RetryConfig{MaxAttempts: 1}
	case retryModeForced:
		return defaults.normalized()
	case retryModeCustom:
		return p.cfg.normalized()
	default:
		if isIdempotentMethod(method) {
			return defaults.normalized()
		}
		return RetryConfig{MaxAttempts: 1}
	}
}

// sleepBackoff waits for d or until ctx is done, whichever comes first.
func sleepBackoff(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
