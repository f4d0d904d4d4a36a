package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/opsdesk/console/internal/core/domain"
	"github.com/opsdesk/console/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password, email, role string) (*domain.Operator, error)
	loginFn    func(ctx context.Context, username, password string) (string, *domain.Operator, error)
	logoutFn   func(ctx context.Context, token string) error
}

func (s *stubAuthService) Register(ctx context.Context, username, password, email, role string) (*domain.Operator, error) {
	return s.registerFn(ctx, username, password, email, role)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.Operator, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) Verify(context.Context, string) (*ports.TokenClaims, error) {
	panic("not used")
}

type recordingSink struct {
	entries []ports.AuditInput
}

func (r *recordingSink) Enqueue(in ports.AuditInput) {
	r.entries = append(r.entries, in)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	sink := &recordingSink{}
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.Operator, error) {
			if username != "alice" || password != "secret12" {
				t.Errorf("unexpected args: %s %s", username, password)
			}
			return "token123", &domain.Operator{Username: "alice", Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(stub, sink)

	c, rec := jsonContext(e, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"secret12"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("token missing from response: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}

	if len(sink.entries) != 1 || sink.entries[0].Kind != domain.EventLoginSucceeded {
		t.Fatalf("expected login_succeeded audit entry, got %+v", sink.entries)
	}
}

func TestAuthHandler_Login_Failure(t *testing.T) {
	e := newEcho()
	sink := &recordingSink{}
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.Operator, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, sink)

	c, _ := jsonContext(e, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"wrongpass"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}

	if len(sink.entries) != 1 || sink.entries[0].Kind != domain.EventLoginFailed {
		t.Fatalf("expected login_failed audit entry, got %+v", sink.entries)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.Operator, error) {
			t.Errorf("should not be called")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(stub, nil)

	for _, body := range []string{"not-json", `{"username":"alice"}`} {
		c, _ := jsonContext(e, http.MethodPost, "/api/auth/login", body)
		err := h.Login(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %v", body, err)
		}
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	sink := &recordingSink{}
	revoked := ""
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, token string) error {
			revoked = token
			return nil
		},
	}
	h := NewAuthHandler(stub, sink)

	c, rec := jsonContext(e, http.MethodPost, "/api/auth/logout", "")
	c.Set("token", "tok-1")
	c.Set("username", "alice")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if revoked != "tok-1" {
		t.Fatalf("token not revoked: %q", revoked)
	}
	if len(sink.entries) != 1 || sink.entries[0].Kind != domain.EventLoggedOut {
		t.Fatalf("expected logged_out audit entry, got %+v", sink.entries)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{}, nil)

	c, rec := jsonContext(e, http.MethodGet, "/api/auth/me", "")
	c.Set("username", "bob")
	c.Set("role", domain.RoleViewer)

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "bob" || resp["role"] != domain.RoleViewer {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Me_WithoutClaims(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{}, nil)

	c, _ := jsonContext(e, http.MethodGet, "/api/auth/me", "")
	err := h.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, email, role string) (*domain.Operator, error) {
			if username != "carol" || role != domain.RoleOperator {
				t.Errorf("unexpected args: %s %s", username, role)
			}
			return &domain.Operator{Username: username, Role: role}, nil
		},
	}
	h := NewAuthHandler(stub, nil)

	c, rec := jsonContext(e, http.MethodPost, "/api/auth/register",
		`{"username":"carol","password":"longenough","role":"operator"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_ValidationFailures(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, email, role string) (*domain.Operator, error) {
			t.Errorf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, nil)

	cases := []string{
		`{"username":"x","password":"longenough","role":"operator"}`, // username too short
		`{"username":"carol","password":"short","role":"operator"}`,  // password too short
		`{"username":"carol","password":"longenough","role":"root"}`, // unknown role
		`{"username":"carol","password":"longenough","role":"operator","email":"not-an-email"}`,
	}
	for _, body := range cases {
		c, _ := jsonContext(e, http.MethodPost, "/api/auth/register", body)
		err := h.Register(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %v", body, err)
		}
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, email, role string) (*domain.Operator, error) {
			return nil, domain.ErrOperatorExists
		},
	}
	h := NewAuthHandler(stub, nil)

	c, _ := jsonContext(e, http.MethodPost, "/api/auth/register",
		`{"username":"carol","password":"longenough","role":"operator"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrOperatorExists) {
		t.Fatalf("expected ErrOperatorExists to propagate, got %v", err)
	}
}
