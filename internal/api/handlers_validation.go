package api

import (
	"io"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"evalgo.org/svgg/internal/svgio"
	"evalgo.org/svgg/internal/validation"
)

// validateDocument handles POST /api/v1/validate/document
//
// The request body is the raw SVG document to check. Returns the
// structural findings plus whether the document parses as a host.
func (s *Server) validateDocument(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return BadRequestError("Unreadable request body", err.Error())
	}
	if len(body) == 0 {
		return BadRequestError("Empty request body", "Send the SVG document as the request body")
	}

	result := s.validator.ValidateHostDocument(body)

	// A structurally sound SVG can still carry a broken container
	// region; surface that as a finding too.
	if result.Valid {
		if _, _, err := svgio.Parse(body); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, validation.ValidationError{
				Field:   "container",
				Message: err.Error(),
			})
		}
	}

	return c.JSON(http.StatusOK, result)
}

// validateContainer handles POST /api/v1/validate/container/:name
//
// Runs the full integrity check on a container in the work
// directory: entry fields, payload decode, checksum match, metadata
// consistency.
func (s *Server) validateContainer(c echo.Context) error {
	name := c.Param("name")
	path := s.containerPath(name)

	doc, err := os.ReadFile(path)
	if err != nil {
		return NotFoundError("Container", name)
	}

	cont, _, err := svgio.Parse(doc)
	if err != nil {
		return BadRequestError("Invalid container document", err.Error())
	}

	return c.JSON(http.StatusOK, s.validator.ValidateContainer(cont))
}
