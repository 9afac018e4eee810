package middleware

import (
	"github.com/labstack/echo/v4"
)

// hardeningHeaders are set on every response. The API serves patient and
// sales records as JSON, so nothing may be framed, sniffed, or cached by
// the browser. HSTS is left to the reverse proxy: the clinic typically
// runs this service over plain HTTP on the office network.
var hardeningHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"X-XSS-Protection":        "0",
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	"Referrer-Policy":         "no-referrer",
	"Permissions-Policy":      "camera=(), microphone=(), geolocation=()",
	"Cache-Control":           "no-store",
}

// SecurityHeaders applies the hardening header set to every response.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for name, value := range hardeningHeaders {
				h.Set(name, value)
			}
			return next(c)
		}
	}
}
