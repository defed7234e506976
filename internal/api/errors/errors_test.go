package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/narvanalabs/scalingo-dashboard/internal/pagination"
	"github.com/narvanalabs/scalingo-dashboard/internal/scalingo"
	"github.com/narvanalabs/scalingo-dashboard/internal/session"
)

func TestFromError(t *testing.T) {
	_, pageErr := pagination.Paginate(10, 0, 5)

	tests := []struct {
		name    string
		err     error
		code    string
		status  int
		message string
	}{
		{"not found", fmt.Errorf("get app: %w", scalingo.ErrNotFound), CodeNotFound, http.StatusNotFound, "Resource not found"},
		{"output", fmt.Errorf("output: %w", scalingo.ErrOutputNotAvailable), CodeNotFound, http.StatusNotFound, "Deployment not found or output not available"},
		{"invalid action", scalingo.ErrInvalidAction, CodeValidationError, http.StatusBadRequest, "Invalid action"},
		{"invalid page", pageErr, CodeValidationError, http.StatusBadRequest, pageErr.Error()},
		{"expired session", session.ErrExpiredToken, CodeUnauthorized, http.StatusUnauthorized, "Token has expired"},
		{"bad credentials", session.ErrInvalidCredentials, CodeUnauthorized, http.StatusUnauthorized, "Invalid email or password"},
		{"upstream 401", &scalingo.Error{StatusCode: 401}, CodeUpstreamError, http.StatusBadGateway, "Scalingo rejected the API token"},
		{"upstream 500", &scalingo.Error{StatusCode: 500, Body: "secret detail"}, CodeUpstreamError, http.StatusBadGateway, "Scalingo API error (500)"},
		{"unknown", stderrors.New("socket closed"), CodeInternalError, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			if got.Code != tt.code {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
			if got.HTTPStatusCode() != tt.status {
				t.Errorf("status = %d, want %d", got.HTTPStatusCode(), tt.status)
			}
			if got.Message != tt.message {
				t.Errorf("message = %q, want %q", got.Message, tt.message)
			}
		})
	}
}

func TestFromErrorPassesAPIErrorThrough(t *testing.T) {
	want := NewForbiddenError("nope")
	if got := FromError(fmt.Errorf("wrapped: %w", want)); got != want {
		t.Errorf("FromError() = %v, want %v", got, want)
	}
	if FromError(nil) != nil {
		t.Error("FromError(nil) should be nil")
	}
}

func TestValidationErrorsToAPIError(t *testing.T) {
	var v ValidationErrors
	if v.HasErrors() {
		t.Fatal("empty ValidationErrors reports errors")
	}
	v.Add("page", "page must be between 1 and 1000")
	v.Add("lines", "lines must be between 1 and 1000")

	apiErr := v.ToAPIError()
	if apiErr.Code != CodeValidationError {
		t.Errorf("code = %q", apiErr.Code)
	}
	if apiErr.Message != "page must be between 1 and 1000 (and 1 more errors)" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if fields, ok := apiErr.Details["fields"].(ValidationErrors); !ok || len(fields) != 2 {
		t.Errorf("details = %v", apiErr.Details)
	}
}
