// Package response provides standardized HTTP response structures and
// helpers for the graphmount server. All responses follow a consistent
// format with a data field for successful responses and an error field
// for failures.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/graphmount/graphmount/pkg/errors"
)

// Response represents the standardized API response structure.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error represents an API error with code, message, and optional details.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{
		Data:  data,
		Error: nil,
	}
}

// Fail creates an error response.
func Fail(code, message, details string) Response {
	return Response{
		Data: nil,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding errors are ignored as headers are already sent (best effort)
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// DispatchError writes a dispatch taxonomy error with its mapped status.
// The error code mirrors the taxonomy so clients can distinguish
// "nothing here" from "turned off" from "misconfiguration".
func DispatchError(w http.ResponseWriter, status int, err error) {
	JSON(w, status, Fail(codeFor(err), err.Error(), ""))
}

// codeFor maps a dispatch error chain to a stable machine-readable code.
func codeFor(err error) string {
	switch {
	case errors.Is(err, errors.ErrDatasetNotFound):
		return "DATASET_NOT_FOUND"
	case errors.Is(err, errors.ErrEndpointDisabled):
		return "ENDPOINT_DISABLED"
	case errors.Is(err, errors.ErrOperationNotResolved):
		return "OPERATION_NOT_RESOLVED"
	case errors.Is(err, errors.ErrHandlerNotResolved):
		return "HANDLER_NOT_RESOLVED"
	default:
		return "INTERNAL_ERROR"
	}
}
