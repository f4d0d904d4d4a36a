package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opsdesk/console/internal/api/metrics"
	"github.com/opsdesk/console/internal/core/domain"
	"github.com/opsdesk/console/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	audit       ports.AuditSink
}

func NewAuthHandler(authService ports.AuthService, audit ports.AuditSink) *AuthHandler {
	return &AuthHandler{authService: authService, audit: audit}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Role     string `json:"role" validate:"required,oneof=admin operator viewer"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string           `json:"token,omitempty"`
	User  *domain.Operator `json:"user,omitempty"`
}

// Login authenticates an operator and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	start := time.Now()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, op, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues("failure").Inc()
		h.record(c, req.Username, domain.EventLoginFailed)
		return err
	}

	metrics.SignInsTotal.WithLabelValues("success").Inc()
	metrics.LoginDuration.Observe(time.Since(start).Seconds())
	h.record(c, op.Username, domain.EventLoginSucceeded)

	return c.JSON(http.StatusOK, authResponse{Token: token, User: op})
}

// Logout revokes the caller's token for the remainder of its lifetime.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      204
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get("token").(string)
	username, _ := c.Get("username").(string)

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return err
	}

	metrics.TokenRevocationsTotal.Inc()
	h.record(c, username, domain.EventLoggedOut)

	return c.NoContent(http.StatusNoContent)
}

// Me returns the verified identity of the caller.
//
// @Summary      Current operator
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	username, role, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"username": username,
		"role":     role,
	})
}

// Register creates a new operator account. Admin only.
//
// @Summary      Register a new operator
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Operator details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	op, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Email, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: op})
}

// record enqueues an auth trail entry; the dispatcher may be absent in tests.
func (h *AuthHandler) record(c echo.Context, username string, kind domain.AuthEventKind) {
	if h.audit == nil || username == "" {
		return
	}
	h.audit.Enqueue(ports.AuditInput{
		Username:  username,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		RemoteIP:  c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
}
