package api

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityHeaders adds the standard hardening headers to every response.
func SecurityHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		return next(c)
	}
}

// ValidateContentType middleware ensures that requests with a body have the correct Content-Type
func ValidateContentType(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		method := c.Request().Method

		// Only check POST, PUT, PATCH requests
		if method == "POST" || method == "PUT" || method == "PATCH" {
			contentType := c.Request().Header.Get("Content-Type")

			// Allow empty body for some requests
			if c.Request().ContentLength == 0 {
				return next(c)
			}

			if !strings.HasPrefix(contentType, "application/json") {
				return BadRequestError(
					"Invalid Content-Type",
					"Content-Type must be 'application/json'. Got: "+contentType,
				)
			}
		}

		return next(c)
	}
}

// APIKeyAuth checks the X-API-Key header against the configured key list.
// An empty key list disables the check entirely.
func APIKeyAuth(apiKeys []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(apiKeys) == 0 {
				return next(c)
			}

			provided := c.Request().Header.Get("X-API-Key")
			if provided == "" {
				return UnauthorizedError("missing X-API-Key header")
			}
			for _, key := range apiKeys {
				if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) == 1 {
					return next(c)
				}
			}
			return UnauthorizedError("invalid API key")
		}
	}
}
