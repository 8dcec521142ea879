package bizcore

import (
	"context"
	"net/http"
	"strings"
	"sync"
)

// AuthMode selects how the client transports its credential. It is an
// explicit constructor choice, never inferred from the environment.
type AuthMode string

const (
	// AuthBearer attaches the credential as an Authorization header on
	// every request. The credential is client-inspectable.
	AuthBearer AuthMode = "bearer"
	// AuthCookie establishes a server-set session cookie via the session
	// endpoint; the credential itself is opaque to the client afterwards.
	AuthCookie AuthMode = "cookie"
)

// sessionPath is the backend resource that creates and destroys
// cookie-mode sessions.
const sessionPath = "/auth/session"

// AuthEventKind identifies why the auth listener is being notified.
type AuthEventKind string

const (
	AuthEventUnauthorized AuthEventKind = "unauthorized"
	AuthEventForbidden    AuthEventKind = "forbidden"
	AuthEventTokenExpired AuthEventKind = "token_expired"
)

// AuthEvent is delivered synchronously to the registered listener when a
// request fails with 401 or 403.
type AuthEvent struct {
	Kind    AuthEventKind
	Message string
}

// AuthListener receives auth events. At most one listener is registered per
// client; registering a new one replaces the previous.
type AuthListener func(AuthEvent)

// session is the per-client credential and listener state. Reads take a
// consistent snapshot per call; clearing an already-cleared credential is a
// no-op, so racing a 401 against concurrent requests is safe.
type session struct {
	mu          sync.RWMutex
	credential  string
	listener    AuthListener
	listenerGen uint64
}

func (s *session) set(credential string) {
	s.mu.Lock()
	s.credential = credential
	s.mu.Unlock()
}

func (s *session) get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

func (s *session) clear() {
	s.mu.Lock()
	s.credential = ""
	s.mu.Unlock()
}

func (s *session) setListener(l AuthListener) func() {
	s.mu.Lock()
	s.listener = l
	s.listenerGen++
	gen := s.listenerGen
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		if s.listenerGen == gen {
			s.listener = nil
		}
		s.mu.Unlock()
	}
}

// notify calls the registered listener outside the lock so a listener may
// re-register without deadlocking.
func (s *session) notify(ev AuthEvent) {
	s.mu.RLock()
	l := s.listener
	s.mu.RUnlock()
	if l != nil {
		l(ev)
	}
}

// SignIn stores the credential for subsequent requests. In bearer mode this
// is purely local. In cookie mode it performs the session round-trip against
// the backend; a rejected round-trip propagates as *APIError and no session
// is established.
func (c *Client) SignIn(ctx context.Context, credential string) error {
	if c.authMode == AuthBearer {
		c.session.set(credential)
		return nil
	}

	_, err := c.Do(ctx, http.MethodPost, sessionPath,
		WithBody(map[string]string{"token": credential}),
		WithRetry(RetryDisabled()),
	)
	return err
}

// SignOut clears the session. The backend notification is best-effort: a
// failure to tear down the server-side session never blocks the local state
// from clearing, and SignOut never returns an error.
func (c *Client) SignOut(ctx context.Context) {
	if c.authMode == AuthCookie {
		// Ignore the outcome; the cookie may already be gone.
		_, _ = c.Do(ctx, http.MethodDelete, sessionPath, WithRetry(RetryDisabled()))
	}
	c.session.clear()
}

// HasCredential reports whether a client-inspectable credential is present.
// In cookie mode the session lives in an httpOnly cookie the client cannot
// see, so HasCredential always returns false there.
func (c *Client) HasCredential() bool {
	if c.authMode != AuthBearer {
		return false
	}
	return c.session.get() != ""
}

// OnAuthEvent registers the auth listener, replacing any previous one. The
// returned function unregisters it, unless a later registration has already
// taken the slot.
func (c *Client) OnAuthEvent(l AuthListener) func() {
	return c.session.setListener(l)
}

// fireAuthSideEffects runs the global side effects of a terminal 401/403:
// a 401 clears the credential and then notifies; a 403 notifies without
// clearing, since the credential may still be valid for other resources.
// Called exactly once per logical request, after retries are exhausted.
func (c *Client) fireAuthSideEffects(apiErr *APIError) {
	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		c.session.clear()
		kind := AuthEventUnauthorized
		if strings.Contains(strings.ToLower(apiErr.RawMessage), "expired") {
			kind = AuthEventTokenExpired
		}
		c.session.notify(AuthEvent{Kind: kind, Message: apiErr.RawMessage})
	case http.StatusForbidden:
		c.session.notify(AuthEvent{Kind: AuthEventForbidden, Message: apiErr.RawMessage})
	}
}
