package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCode(t *testing.T) {
	err := RateLimitExceeded("generation rate limit exceeded")
	assert.True(t, IsCode(err, ErrCodeRateLimitExceeded))
	assert.False(t, IsCode(err, ErrCodeTransport))

	// Codes survive wrapping with %w.
	wrapped := fmt.Errorf("submit answer: %w", err)
	assert.True(t, IsCode(wrapped, ErrCodeRateLimitExceeded))

	assert.False(t, IsCode(fmt.Errorf("plain"), ErrCodeRateLimitExceeded))
}

func TestGetCodeFromError(t *testing.T) {
	assert.Equal(t, ErrCodeTransport, GetCodeFromError(Transport("boom", nil), ErrCodeInvalidArgument))
	assert.Equal(t, ErrCodeInvalidArgument, GetCodeFromError(fmt.Errorf("plain"), ErrCodeInvalidArgument))
}

func TestErrorFormatting(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Transport("embedding request failed", cause)
	assert.Contains(t, err.Error(), "TRANSPORT_ERROR")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, err.Unwrap())
}
