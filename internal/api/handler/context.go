package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/onboarding-system/internal/api/middleware"
)

// ctxUserID returns the user id injected by the Auth middleware. An empty
// value means the route was mounted without it.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.UserIDKey).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
