package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/opsdesk/console/internal/core/domain"
	"github.com/opsdesk/console/internal/core/ports"
)

// stubAuthService verifies exactly one known token.
type stubAuthService struct {
	token   string
	claims  *ports.TokenClaims
	revoked bool
}

func (s *stubAuthService) Register(context.Context, string, string, string, string) (*domain.Operator, error) {
	panic("not used")
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.Operator, error) {
	panic("not used")
}

func (s *stubAuthService) Logout(context.Context, string) error {
	panic("not used")
}

func (s *stubAuthService) Verify(_ context.Context, token string) (*ports.TokenClaims, error) {
	if s.revoked {
		return nil, domain.ErrTokenRevoked
	}
	if token != s.token {
		return nil, domain.ErrInvalidCredentials
	}
	return s.claims, nil
}

func newAuthContext(e *echo.Echo, header string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	svc := &stubAuthService{
		token:  "good-token",
		claims: &ports.TokenClaims{Username: "alice", Role: domain.RoleAdmin},
	}
	c, rec := newAuthContext(e, "Bearer good-token")

	called := false
	handler := Auth(svc)(func(c echo.Context) error {
		called = true
		if c.Get("username") != "alice" {
			t.Errorf("username not set")
		}
		if c.Get("role") != domain.RoleAdmin {
			t.Errorf("role not set")
		}
		if c.Get("token") != "good-token" {
			t.Errorf("token not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	svc := &stubAuthService{token: "good-token"}
	c, rec := newAuthContext(e, "")

	handler := Auth(svc)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	svc := &stubAuthService{token: "good-token"}
	c, rec := newAuthContext(e, "Token abc")

	handler := Auth(svc)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	e := echo.New()
	svc := &stubAuthService{token: "good-token"}
	c, rec := newAuthContext(e, "Bearer not-the-token")

	handler := Auth(svc)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	e := echo.New()
	svc := &stubAuthService{token: "good-token", revoked: true}
	c, rec := newAuthContext(e, "Bearer good-token")

	handler := Auth(svc)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
