package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cafe-finder/internal/api"
	"cafe-finder/internal/logger"

	"github.com/labstack/echo/v4"
)

type errorPage struct {
	Code    int
	Message string
}

// HTTPErrorHandler renders errors as JSON under /api and as an HTML page
// elsewhere. Server errors are logged and their detail is not shown.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if code >= http.StatusInternalServerError {
		logger.Log.Errorw("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
		msg = http.StatusText(code)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		_ = c.JSON(code, api.ErrorResponse{Error: msg})
		return
	}
	if rerr := c.Render(code, "errors/error.html", errorPage{Code: code, Message: msg}); rerr != nil {
		_ = c.String(code, msg)
	}
}
