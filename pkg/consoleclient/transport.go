package consoleclient

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Policy names the paths the 401 redirect guard reasons about.
type Policy struct {
	// LoginPath is the login entry point the user is bounced to. Default "/login".
	LoginPath string
	// AuthSurfacePrefix marks the part of the application considered the
	// authentication area; no redirect fires while the user is inside it.
	// Default "/auth".
	AuthSurfacePrefix string
	// AuthEndpointPath is the sign-in endpoint on the gateway; a 401 from it
	// is a failed login, never a reason to redirect. Default "/api/auth/login".
	AuthEndpointPath string
	// LogoutEndpointPath is called best-effort on sign-out so the gateway can
	// revoke the token. Default "/api/auth/logout".
	LogoutEndpointPath string
}

func (p Policy) withDefaults() Policy {
	if p.LoginPath == "" {
		p.LoginPath = "/login"
	}
	if p.AuthSurfacePrefix == "" {
		p.AuthSurfacePrefix = "/auth"
	}
	if p.AuthEndpointPath == "" {
		p.AuthEndpointPath = "/api/auth/login"
	}
	if p.LogoutEndpointPath == "" {
		p.LogoutEndpointPath = "/api/auth/logout"
	}
	return p
}

// onAuthSurface reports whether the current location is inside the auth area.
func (p Policy) onAuthSurface(current string) bool {
	return current == p.LoginPath || strings.HasPrefix(current, p.AuthSurfacePrefix)
}

// isAuthEndpoint reports whether the failing request targeted the sign-in
// endpoint itself.
func (p Policy) isAuthEndpoint(requestPath string) bool {
	return requestPath == p.AuthEndpointPath
}

// Transport is the request/response interceptor pair, expressed as an
// http.RoundTripper. Before dispatch it re-reads the credential store and
// stamps (or strips) both credential headers on a clone of the request, so a
// request constructed before the last header sync still carries the current
// credential. After dispatch it watches for 401 and runs the invalidation
// and redirect policy.
type Transport struct {
	base   http.RoundTripper
	store  CredentialStore
	nav    Navigator
	policy Policy
	log    zerolog.Logger
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, store CredentialStore, nav Navigator, policy Policy, log zerolog.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if nav == nil {
		nav = NopNavigator{}
	}
	return &Transport{
		base:   base,
		store:  store,
		nav:    nav,
		policy: policy.withDefaults(),
		log:    log,
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	applySink(MapSink(out.Header), t.store.Get())

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.handleUnauthorized(req.URL.Path)
	}
	return resp, nil
}

// handleUnauthorized clears the credential and redirects to the login entry
// point, unless the user is already on the auth surface or the failure came
// from the sign-in endpoint itself. The dual guard is what prevents a
// redirect loop when a login attempt fails with 401.
func (t *Transport) handleUnauthorized(requestPath string) {
	t.store.Clear()

	current := t.nav.CurrentPath()
	if t.policy.onAuthSurface(current) || t.policy.isAuthEndpoint(requestPath) {
		t.log.Debug().
			Str("request_path", requestPath).
			Str("location", current).
			Msg("401 on auth surface, credential cleared without redirect")
		return
	}

	t.log.Info().
		Str("request_path", requestPath).
		Str("location", current).
		Msg("session invalidated, redirecting to login")
	t.nav.Replace(t.policy.LoginPath)
}
