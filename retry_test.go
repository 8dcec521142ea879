package bizcore

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryConfig_Delay(t *testing.T) {
	cfg := RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 350 * time.Millisecond}

	assert.Equal(t, 100*time.Millisecond, cfg.delay(1))
	assert.Equal(t, 200*time.Millisecond, cfg.delay(2))
	// 400ms is capped at MaxDelay.
	assert.Equal(t, 350*time.Millisecond, cfg.delay(3))
	assert.Equal(t, 350*time.Millisecond, cfg.delay(4))
}

func TestRetryConfig_NormalizedClampsInvertedDelays(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, BaseDelay: 5 * time.Second, MaxDelay: time.Second}.normalized()
	assert.Equal(t, time.Second, cfg.BaseDelay)
	assert.Equal(t, time.Second, cfg.MaxDelay)
}

func TestRetryConfig_NormalizedClampsAttempts(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 0}.normalized()
	assert.Equal(t, 1, cfg.MaxAttempts)
}

func TestRetryConfig_ShouldRetry(t *testing.T) {
	all := RetryConfig{RetryOnServerError: true, RetryOnNetworkError: true}
	none := RetryConfig{}

	tests := []struct {
		category Category
		cfg      RetryConfig
		want     bool
	}{
		{CategoryServer, all, true},
		{CategoryServer, none, false},
		{CategoryNetwork, all, true},
		{CategoryNetwork, none, false},
		{CategoryTimeout, all, true},
		{CategoryTimeout, none, false},
		// Auth failures are never retryable, whatever the flags say.
		{CategoryAuth, all, false},
		{CategoryForbidden, all, false},
		{CategoryNotFound, all, false},
		{CategoryValidation, all, false},
		{CategoryUnknown, all, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cfg.shouldRetry(tt.category), "category %s", tt.category)
	}
}

func TestRetryPolicy_Resolve(t *testing.T) {
	defaults := DefaultRetryConfig()
	custom := RetryConfig{MaxAttempts: 7, BaseDelay: time.Millisecond, MaxDelay: time.Second, RetryOnServerError: true}

	tests := []struct {
		name         string
		policy       RetryPolicy
		method       string
		wantAttempts int
	}{
		{"default GET retries", RetryDefault(), http.MethodGet, defaults.MaxAttempts},
		{"default HEAD retries", RetryDefault(), http.MethodHead, defaults.MaxAttempts},
		{"default OPTIONS retries", RetryDefault(), http.MethodOptions, defaults.MaxAttempts},
		{"default POST does not retry", RetryDefault(), http.MethodPost, 1},
		{"default PUT does not retry", RetryDefault(), http.MethodPut, 1},
		{"default PATCH does not retry", RetryDefault(), http.MethodPatch, 1},
		{"default DELETE does not retry", RetryDefault(), http.MethodDelete, 1},
		{"zero value policy is default", RetryPolicy{}, http.MethodPost, 1},
		{"disabled GET", RetryDisabled(), http.MethodGet, 1},
		{"forced POST", RetryForced(), http.MethodPost, defaults.MaxAttempts},
		{"custom POST", RetryWith(custom), http.MethodPost, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.resolve(tt.method, defaults)
			assert.Equal(t, tt.wantAttempts, got.MaxAttempts)
		})
	}
}

func TestSleepBackoff_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sleepBackoff(ctx, time.Minute)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSleepBackoff_ZeroDelay(t *testing.T) {
	assert.NoError(t, sleepBackoff(context.Background(), 0))
}
