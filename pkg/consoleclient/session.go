package consoleclient

import (
	"context"
	"sync"
)

// DefaultRole is assigned to a session derived solely from a stored
// credential. The core forwards the credential without parsing it, so no
// richer identity is available at bootstrap; callers wanting a real profile
// replace userFromCredential with a fetch against the gateway.
const DefaultRole = "admin"

// UserRef is the minimal caller identity held by the session.
type UserRef struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

// State is a point-in-time snapshot of the session. Authenticated and
// Unauthenticated are mutually exclusive and both false while Loading.
type State struct {
	User            *UserRef
	Loading         bool
	Authenticated   bool
	Unauthenticated bool
}

// Session is the process-wide record of whether, and as whom, the process is
// authenticated. It starts in the loading state; Bootstrap or Check settles
// it, and afterwards only sign-in, sign-out, or a 401 move it.
type Session struct {
	mu      sync.Mutex
	core    *Core
	user    *UserRef
	loading bool
}

func newSession(core *Core) *Session {
	return &Session{core: core, loading: true}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{User: s.user, Loading: s.loading}
	if !s.loading {
		st.Authenticated = s.user != nil
		st.Unauthenticated = s.user == nil
	}
	return st
}

// Bootstrap recomputes the session from the credential store: when a
// credential is present it re-applies headers to every registered
// configuration and settles authenticated, otherwise unauthenticated. Any
// failure settles unauthenticated; the state never stays loading.
func (s *Session) Bootstrap(ctx context.Context) {
	cred, ok := s.readStore()
	if !ok || cred == "" {
		s.core.headers.Apply("")
		s.settle(nil)
		return
	}

	s.core.headers.Apply(cred)
	s.settle(userFromCredential(cred))
}

// Check is the public re-check operation: identical to Bootstrap, exposed so
// callers can force the state to recompute after an external event.
func (s *Session) Check(ctx context.Context) {
	s.Bootstrap(ctx)
}

// readStore isolates the store read so a misbehaving store implementation
// fails safe to the unauthenticated shape instead of wedging the session.
func (s *Session) readStore() (cred string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.core.log.Error().Interface("panic", r).Msg("credential store read failed, treating as signed out")
			ok = false
		}
	}()
	return s.core.store.Get(), true
}

// settle moves the session out of loading with the given identity.
func (s *Session) settle(user *UserRef) {
	s.mu.Lock()
	s.user = user
	s.loading = false
	s.mu.Unlock()
}

func userFromCredential(cred string) *UserRef {
	return &UserRef{AccessToken: cred, Role: DefaultRole}
}
