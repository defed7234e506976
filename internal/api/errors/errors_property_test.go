package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/narvanalabs/scalingo-dashboard/internal/scalingo"
)

// **Feature: dashboard-api, Property 1: Structured Error Response Format**
// *For any* API error, the written response carries the code, the error
// message and the request ID, with the status matching the code.
func TestPropertyStructuredErrorResponseFormat(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	genCode := gen.OneConstOf(
		CodeValidationError,
		CodeNotFound,
		CodeUnauthorized,
		CodeForbidden,
		CodeUpstreamError,
		CodeInternalError,
	)
	genMessage := gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 })
	genRequestID := gen.RegexMatch("[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}")

	properties.Property("error response contains required fields", prop.ForAll(
		func(code, message, requestID string) bool {
			apiErr := New(code, message).WithRequestID(requestID)

			rr := httptest.NewRecorder()
			WriteError(rr, apiErr)

			if rr.Code != apiErr.HTTPStatusCode() {
				t.Logf("status %d, want %d", rr.Code, apiErr.HTTPStatusCode())
				return false
			}

			var response map[string]any
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Logf("failed to decode response: %v", err)
				return false
			}
			return response["code"] == code &&
				response["error"] == message &&
				response["request_id"] == requestID
		},
		genCode,
		genMessage,
		genRequestID,
	))

	properties.TestingRun(t)
}

// **Feature: dashboard-api, Property 2: Upstream Status Mapping**
// *For any* non-2xx Scalingo status, FromError never reports a 2xx status
// and only 404 becomes NOT_FOUND.
func TestPropertyUpstreamStatusMapping(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("scalingo errors map to client or gateway errors", prop.ForAll(
		func(status int) bool {
			err := fmt.Errorf("listing apps: %w", &scalingo.Error{StatusCode: status, Body: "boom"})
			apiErr := FromError(err)
			if apiErr == nil {
				return false
			}
			if status == http.StatusNotFound {
				return apiErr.Code == CodeNotFound
			}
			return apiErr.Code == CodeUpstreamError && apiErr.HTTPStatusCode() == http.StatusBadGateway
		},
		gen.IntRange(400, 599),
	))

	properties.TestingRun(t)
}
