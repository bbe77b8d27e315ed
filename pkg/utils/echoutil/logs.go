// Package echoutil is middlewares and logger setup shared by echo servers.
package echoutil

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

// LogHandlerFunc logs each request when it arrives and when it is answered.
//
// Lines are tagged with the request id, so set RequestID before this.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		req := c.Request()
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		since := time.Now()
		c.Logger().Infof("[%s] --> %s %s", rid, req.Method, req.URL)

		defer func() {
			elapsed := time.Since(since)
			if err != nil {
				c.Logger().Infof(
					"[%s] <-- %s %s: %d in %s, error: %v",
					rid, req.Method, req.URL, c.Response().Status, elapsed, err,
				)
				return
			}
			c.Logger().Infof(
				"[%s] <-- %s %s: %d in %s",
				rid, req.Method, req.URL, c.Response().Status, elapsed,
			)
		}()

		return next(c)
	}
}

// RequestID assigns a request id (UUID) to each request, unless the client gives one
// with "X-Request-Id" header.
//
// The id is set to "X-Request-Id" header of the response.
func RequestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	})
}

// ParseLevel parses log level name: "debug", "info", "warn", "error" or "off".
//
// Empty string means "warn". It returns false for unknown names.
func ParseLevel(loglevel string) (log.Lvl, bool) {
	switch strings.ToLower(loglevel) {
	case "debug":
		return log.DEBUG, true
	case "info":
		return log.INFO, true
	case "warn", "":
		return log.WARN, true
	case "error":
		return log.ERROR, true
	case "off":
		return log.OFF, true
	default:
		return log.WARN, false
	}
}

func SetLevel(e *echo.Echo, loglevel string) {
	lvl, ok := ParseLevel(loglevel)
	e.Logger.SetLevel(lvl)
	if !ok {
		e.Logger.Warnf("unknown loglevel: %s . fall-backed to warn", loglevel)
	}
}
