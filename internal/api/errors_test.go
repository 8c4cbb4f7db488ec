package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError_MessageField(t *testing.T) {
	apiErr := parseError(400, []byte(`{"message":"code already exists"}`))
	assert.Equal(t, "code already exists", apiErr.Message)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestParseError_NestedError(t *testing.T) {
	apiErr := parseError(409, []byte(`{"error":{"code":"ALREADY_EXISTS","message":"duplicate"}}`))
	assert.Equal(t, "duplicate", apiErr.Message)
	assert.Equal(t, "ALREADY_EXISTS", apiErr.Code)
}

func TestParseError_FallsBackToStatusText(t *testing.T) {
	apiErr := parseError(404, []byte(`{}`))
	assert.Equal(t, "Not Found", apiErr.Message)

	apiErr = parseError(500, []byte(`<html>oops</html>`))
	assert.Equal(t, "Internal Server Error", apiErr.Message)
}

func TestParseError_FallsBackToGeneric(t *testing.T) {
	// Status code with no registered text.
	apiErr := parseError(599, nil)
	assert.Equal(t, "network request failed", apiErr.Message)
}

func TestIsCanceled(t *testing.T) {
	assert.True(t, IsCanceled(context.Canceled))
	assert.True(t, IsCanceled(context.DeadlineExceeded))
	assert.True(t, IsCanceled(fmt.Errorf("executing request: %w", context.Canceled)))
	assert.False(t, IsCanceled(errors.New("boom")))
	assert.False(t, IsCanceled(nil))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", ErrorMessage(nil))
	assert.Equal(t, "denied", ErrorMessage(&APIError{StatusCode: 403, Message: "denied"}))
	assert.Equal(t, "denied", ErrorMessage(fmt.Errorf("wrapped: %w", &APIError{Message: "denied"})))
	assert.Equal(t, "network request failed", ErrorMessage(errors.New("dial tcp: refused")))
}
