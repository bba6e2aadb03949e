package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"evalgo.org/svgg/internal/codec"
	"evalgo.org/svgg/internal/container"
	"evalgo.org/svgg/internal/operations"
	"evalgo.org/svgg/internal/structure"
	"evalgo.org/svgg/internal/svgio"
)

// APIError is the JSON error body of every failed request.
type APIError struct {
	Code       int                    `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	FieldError map[string]string      `json:"field_errors,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// NewAPIError creates an API error with an explicit status code.
func NewAPIError(code int, message string, details string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Constructors for the request-shape failures handlers detect
// themselves. Container-engine failures do not need these: returning
// the raw error lets HTTPErrorHandler map the domain taxonomy.
func BadRequestError(message, details string) *APIError {
	return NewAPIError(http.StatusBadRequest, message, details)
}

func NotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Context: map[string]interface{}{"id": id},
	}
}

func ValidationError(message string, fieldErrors map[string]string) *APIError {
	return &APIError{
		Code:       http.StatusBadRequest,
		Message:    message,
		FieldError: fieldErrors,
	}
}

func InternalError(message, details string) *APIError {
	return NewAPIError(http.StatusInternalServerError, message, details)
}

func ConflictError(message, details string) *APIError {
	return NewAPIError(http.StatusConflict, message, details)
}

// domainAPIError maps the container engine's error taxonomy to HTTP
// statuses. Returns nil for errors outside the taxonomy.
func domainAPIError(err error) *APIError {
	var decodeErr *codec.DecodeError

	switch {
	case errors.Is(err, os.ErrNotExist):
		return NewAPIError(http.StatusNotFound, "Container not found", err.Error())
	case errors.Is(err, container.ErrNotFound):
		return NewAPIError(http.StatusNotFound, "Entry not found", err.Error())
	case errors.Is(err, container.ErrDuplicatePath):
		return NewAPIError(http.StatusConflict, "Logical path already exists", err.Error())
	case errors.Is(err, container.ErrInvalidPath):
		return NewAPIError(http.StatusBadRequest, "Invalid logical path", err.Error())
	case errors.Is(err, operations.ErrLimitExceeded):
		return NewAPIError(http.StatusRequestEntityTooLarge, "Size limit exceeded", err.Error())
	case errors.Is(err, structure.ErrStructureConflict):
		return NewAPIError(http.StatusConflict, "Structure conflict", err.Error())
	case errors.Is(err, svgio.ErrInvalidHostFormat):
		return NewAPIError(http.StatusUnprocessableEntity, "Host document is not a valid container", err.Error())
	case errors.As(err, &decodeErr):
		return NewAPIError(http.StatusUnprocessableEntity, "Entry payload is corrupt", err.Error())
	}
	return nil
}

// HTTPErrorHandler converts every error a handler returns into the
// APIError JSON shape. Domain errors carry their own status; anything
// unrecognized is a 500 whose details are hidden outside debug mode.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		if he, ok := err.(*echo.HTTPError); ok {
			apiErr = &APIError{
				Code:    he.Code,
				Message: http.StatusText(he.Code),
				Details: fmt.Sprintf("%v", he.Message),
			}
		} else if apiErr = domainAPIError(err); apiErr == nil {
			apiErr = &APIError{
				Code:    http.StatusInternalServerError,
				Message: "Internal server error",
				Details: err.Error(),
			}
		}
	}

	if apiErr.Code == http.StatusInternalServerError && !c.Echo().Debug {
		apiErr.Details = "An internal error occurred. Please try again later."
	}

	if err := c.JSON(apiErr.Code, apiErr); err != nil {
		c.Logger().Error(err)
	}
}
