package consoleclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const requestTimeout = 30 * time.Second

// Core bundles the credential store, header synchronizer, navigator, and
// session shared by every client configuration in the process. It is built
// once and injected; components never reach for ambient globals.
type Core struct {
	store   CredentialStore
	headers *HeaderSync
	nav     Navigator
	policy  Policy
	session *Session
	log     zerolog.Logger
}

// NewCore wires the session core. A nil store defaults to an in-memory
// store; a nil navigator to NopNavigator.
func NewCore(store CredentialStore, nav Navigator, policy Policy, log zerolog.Logger) *Core {
	if store == nil {
		store = NewMemoryStore()
	}
	if nav == nil {
		nav = NopNavigator{}
	}
	c := &Core{
		store:   store,
		headers: NewHeaderSync(),
		nav:     nav,
		policy:  policy.withDefaults(),
		log:     log,
	}
	c.session = newSession(c)
	return c
}

func (c *Core) Store() CredentialStore { return c.store }
func (c *Core) Headers() *HeaderSync   { return c.headers }
func (c *Core) Session() *Session      { return c.session }

// Credentials is the payload for the gateway's sign-in endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse mirrors the gateway's login envelope; only the token matters
// to the core.
type authResponse struct {
	Token string `json:"token"`
}

// Client is one HTTP client configuration: a base URL plus a default header
// set registered with the core's synchronizer. All requests go through the
// intercepting Transport, so every call carries the current credential and
// every 401 runs the invalidation policy without caller involvement.
type Client struct {
	core     *Core
	base     *url.URL
	defaults http.Header
	http     *http.Client
}

// NewClient builds a configuration bound to core. Multiple clients may share
// one core; the synchronizer keeps all of their default headers in agreement.
func NewClient(core *Core, baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	defaults := make(http.Header)
	core.headers.Register(MapSink(defaults))

	return &Client{
		core:     core,
		base:     u,
		defaults: defaults,
		http: &http.Client{
			Transport: NewTransport(nil, core.store, core.nav, core.policy, core.log),
			Timeout:   requestTimeout,
		},
	}, nil
}

// Defaults exposes the configuration's default header set.
func (c *Client) Defaults() http.Header { return c.defaults }

// Get issues a GET and decodes a 2xx JSON body into out (out may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes a 2xx response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Do issues a request. Non-2xx responses come back as *APIError carrying the
// gateway's error message when one was decodable.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range c.defaults {
		req.Header[k] = append([]string(nil), vs...)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// SignIn delegates to the gateway's sign-in endpoint and, on success, stores
// the credential, applies it to every configuration, and re-checks the
// session. Returns the credential.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (string, error) {
	var resp authResponse
	if err := c.Post(ctx, c.core.policy.AuthEndpointPath, creds, &resp); err != nil {
		return "", err
	}

	c.core.store.Set(resp.Token)
	c.core.headers.Apply(resp.Token)
	c.core.session.Check(ctx)
	return resp.Token, nil
}

// SignOut revokes the token on the gateway best-effort, then clears the
// credential, strips headers everywhere, and resets the session. A request
// already in flight runs to completion under the stale credential.
func (c *Client) SignOut(ctx context.Context) error {
	if c.core.store.Get() != "" {
		if err := c.Post(ctx, c.core.policy.LogoutEndpointPath, nil, nil); err != nil {
			c.core.log.Warn().Err(err).Msg("gateway logout failed, clearing session locally")
		}
	}

	c.core.store.Clear()
	c.core.headers.Apply("")
	c.core.session.settle(nil)
	return nil
}
