package api

import (
	"strings"

	"github.com/labstack/echo/v4"
)

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

			// Import uploads arrive as multipart forms, validation as raw SVG
			if strings.HasPrefix(contentType, "multipart/form-data") ||
				strings.HasPrefix(contentType, "image/svg+xml") {
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

// ValidateAcceptHeader middleware ensures that clients can accept JSON responses
func ValidateAcceptHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accept := c.Request().Header.Get("Accept")

		// If no Accept header, assume */*
		if accept == "" {
			return next(c)
		}

		if !strings.Contains(accept, "application/json") &&
			!strings.Contains(accept, "*/*") &&
			!strings.Contains(accept, "application/*") &&
			!strings.Contains(accept, "text/") {
			return BadRequestError(
				"Invalid Accept header",
				"Accept header must include 'application/json' or '*/*'. Got: "+accept,
			)
		}

		return next(c)
	}
}

// ValidateContainerName middleware rejects container names that could
// escape the work directory.
func ValidateContainerName(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		name := c.Param("name")

		if name == "" {
			return next(c)
		}

		if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
			return BadRequestError(
				"Invalid container name",
				"Name must be a bare file name without path separators",
			)
		}

		if len(name) > 256 {
			return BadRequestError(
				"Invalid container name",
				"Name must not exceed 256 characters",
			)
		}

		return next(c)
	}
}

// RequireAPIKey middleware checks the X-API-Key header against the
// configured key set. A server with no configured keys runs open.
func RequireAPIKey(keys []string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(keys))
	for _, k := range keys {
		allowed[k] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(allowed) == 0 {
				return next(c)
			}

			key := c.Request().Header.Get("X-API-Key")
			if key == "" || !allowed[key] {
				return NewAPIError(401, "Unauthorized", "A valid X-API-Key header is required")
			}

			return next(c)
		}
	}
}

// SecurityHeaders middleware adds security headers to responses
func SecurityHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("X-Content-Type-Options", "nosniff")
		c.Response().Header().Set("X-Frame-Options", "DENY")
		c.Response().Header().Set("X-XSS-Protection", "1; mode=block")
		c.Response().Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		return next(c)
	}
}
