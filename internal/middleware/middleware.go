package middleware

import (
	"net/http"

	"cafe-finder/internal/api"
	"cafe-finder/internal/session"

	"github.com/labstack/echo/v4"
)

const (
	NotLoggedInMsg = "You are not logged in."
	NotAdminMsg    = "Only admins can add or edit cafes."
)

// RequireUser guards page routes: anonymous requests are flashed and sent to /login.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := session.CurrentUser(c); !ok {
			session.AddFlash(c, "danger", NotLoggedInMsg)
			return c.Redirect(http.StatusFound, "/login")
		}
		return next(c)
	}
}

// RequireUserJSON guards API routes with a 401 JSON body.
func RequireUserJSON(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := session.CurrentUser(c); !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not logged in"})
		}
		return next(c)
	}
}

// RequireAdmin only lets admin identities through.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireUser(func(c echo.Context) error {
		user, _ := session.CurrentUser(c)
		if !user.Admin {
			session.AddFlash(c, "danger", NotAdminMsg)
			return c.Redirect(http.StatusFound, "/cafes")
		}
		return next(c)
	})
}
