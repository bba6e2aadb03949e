package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"

	"evalgo.org/svgg/internal/codec"
	"evalgo.org/svgg/internal/container"
	"evalgo.org/svgg/internal/operations"
	"evalgo.org/svgg/internal/structure"
	"evalgo.org/svgg/internal/svgio"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		want     string
	}{
		{
			name: "error with details",
			apiError: &APIError{
				Code:    400,
				Message: "Invalid merge strategy",
				Details: `unknown merge strategy: "zigzag"`,
			},
			want: `Invalid merge strategy: unknown merge strategy: "zigzag"`,
		},
		{
			name: "error without details",
			apiError: &APIError{
				Code:    404,
				Message: "Entry not found",
			},
			want: "Entry not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.apiError.Error(); got != tt.want {
				t.Errorf("APIError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDomainAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing container", fmt.Errorf("load bundle.svg: %w", os.ErrNotExist), http.StatusNotFound},
		{"missing entry", fmt.Errorf("exclude %q: %w", "a.txt", container.ErrNotFound), http.StatusNotFound},
		{"duplicate path", fmt.Errorf("put %q: %w", "a.txt", container.ErrDuplicatePath), http.StatusConflict},
		{"invalid path", fmt.Errorf("add: %w", container.ErrInvalidPath), http.StatusBadRequest},
		{"size limit", fmt.Errorf("big.bin (9000 bytes): %w", operations.ErrLimitExceeded), http.StatusRequestEntityTooLarge},
		{"structure conflict", fmt.Errorf("merge: %w", structure.ErrStructureConflict), http.StatusConflict},
		{"invalid host", fmt.Errorf("parse: %w", svgio.ErrInvalidHostFormat), http.StatusUnprocessableEntity},
		{"corrupt payload", &codec.DecodeError{Encoding: codec.EncodingBase64, Reason: "checksum mismatch"}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := domainAPIError(tt.err)
			if apiErr == nil {
				t.Fatalf("domainAPIError(%v) = nil, want code %d", tt.err, tt.want)
			}
			if apiErr.Code != tt.want {
				t.Errorf("domainAPIError(%v).Code = %d, want %d", tt.err, apiErr.Code, tt.want)
			}
		})
	}

	if got := domainAPIError(errors.New("disk on fire")); got != nil {
		t.Errorf("domainAPIError(unknown) = %v, want nil", got)
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{
			name:        "shaped api error",
			err:         BadRequestError("No files provided", "Attach at least one file"),
			wantCode:    http.StatusBadRequest,
			wantMessage: "No files provided",
		},
		{
			name:        "echo http error",
			err:         echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"),
			wantCode:    http.StatusMethodNotAllowed,
			wantMessage: http.StatusText(http.StatusMethodNotAllowed),
		},
		{
			name:        "domain error",
			err:         fmt.Errorf("read entry: %w", container.ErrNotFound),
			wantCode:    http.StatusNotFound,
			wantMessage: "Entry not found",
		},
		{
			name:        "unrecognized error",
			err:         errors.New("disk on fire"),
			wantCode:    http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			ctx := e.NewContext(req, rec)

			HTTPErrorHandler(tt.err, ctx)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var body APIError
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not APIError JSON: %v", err)
			}
			if body.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMessage)
			}
		})
	}
}

func TestHTTPErrorHandlerHidesInternalDetails(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	HTTPErrorHandler(errors.New("dsn=postgres://user:secret@db"), ctx)

	var body APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not APIError JSON: %v", err)
	}
	if body.Details == "" || body.Details == "dsn=postgres://user:secret@db" {
		t.Errorf("internal details leaked outside debug mode: %q", body.Details)
	}
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("Container", "bundle.svg")

	if err.Code != http.StatusNotFound {
		t.Errorf("NotFoundError().Code = %v, want %v", err.Code, http.StatusNotFound)
	}
	if err.Message != "Container not found" {
		t.Errorf("NotFoundError().Message = %v, want %v", err.Message, "Container not found")
	}
	if id, ok := err.Context["id"].(string); !ok || id != "bundle.svg" {
		t.Errorf("NotFoundError().Context['id'] = %v, want 'bundle.svg'", id)
	}
}

func TestValidationError(t *testing.T) {
	fieldErrors := map[string]string{
		"name": "Name is required",
	}
	err := ValidationError("Validation failed", fieldErrors)

	if err.Code != http.StatusBadRequest {
		t.Errorf("ValidationError().Code = %v, want %v", err.Code, http.StatusBadRequest)
	}
	if err.FieldError["name"] != "Name is required" {
		t.Errorf("ValidationError().FieldError['name'] = %v, want 'Name is required'", err.FieldError["name"])
	}
}
