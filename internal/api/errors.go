package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a request the backend rejected with a 4xx/5xx response.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s (%s)", e.Message, e.Code)
	}
	return "api: " + e.Message
}

// errorEnvelope mirrors the error body shapes the backend is known to produce:
// either a top-level message field or a nested error object.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// parseError builds an APIError from a non-2xx response.
// Extraction falls back through body message, HTTP status text, and a
// generic failure message, in that order.
func parseError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != nil && envelope.Error.Message != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
			return apiErr
		}
		if envelope.Message != "" {
			apiErr.Message = envelope.Message
			return apiErr
		}
	}

	if text := http.StatusText(statusCode); text != "" {
		apiErr.Message = text
		return apiErr
	}

	apiErr.Message = "network request failed"
	return apiErr
}

// IsCanceled reports whether err was caused by context cancellation or a
// deadline. Callers treat such errors as silent no-ops, never user-visible
// failures.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ErrorMessage maps any error from this package to the text shown to the user.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "network request failed"
}
