package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the claims injected by the Auth middleware and performs
// a fast-fail check before any service call: role must be non-empty
// (presence proves the middleware ran).
func ctxClaims(c echo.Context) (username, role string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	username, _ = c.Get("username").(string)
	return username, role, nil
}
