// Package logger holds the process-wide zap logger and the echo request
// logging middleware.
package logger

import (
	"errors"
	"os"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Log is the global SugaredLogger. It is a no-op logger until Init is called.
var Log = zap.NewNop().Sugar()

// Init builds a production zap logger at the given level ("debug", "info",
// "warn", "error") and installs it as Log.
func Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = zl.Sugar()

	return nil
}

// Sync flushes buffered log entries. Errors from syncing a terminal are ignored.
func Sync() error {
	if err := Log.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) && !errors.Is(err, syscall.ENOTTY) {
		return err
	}
	return nil
}

// Middleware logs one structured line per request.
func Middleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				Log.Errorw("request", append(fields, "error", v.Error)...)
				return nil
			}
			Log.Infow("request", fields...)
			return nil
		},
	})
}
