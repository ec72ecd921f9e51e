package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		code int
		kind Kind
	}{
		{400, KindInvalidKey},
		{429, KindRateLimit},
		{403, KindForbidden},
		{404, KindNotFound},
		{500, KindServerError},
		{503, KindUnavailable},
		{418, KindUnknown},
		{200, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.code), func(t *testing.T) {
			err := ClassifyStatus(tt.code, "details")
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.code, err.HTTPCode)
			assert.NotEmpty(t, err.UserMessage)
		})
	}
}

func TestOnlyRateLimitIsRetryable(t *testing.T) {
	for _, kind := range []Kind{
		KindAPIKeyMissing, KindInvalidKey, KindRateLimit, KindForbidden,
		KindNotFound, KindServerError, KindUnavailable, KindEmptyResponse, KindUnknown,
	} {
		err := NewError(kind, 0, "")
		assert.Equal(t, kind == KindRateLimit, err.Retryable, "kind %s", kind)
	}
}

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestClassifyPassesThroughClassified(t *testing.T) {
	original := NewError(KindForbidden, 403, "no access")
	wrapped := fmt.Errorf("request failed: %w", original)

	assert.Same(t, original, Classify(wrapped))
}

func TestClassifyDeadlineExceeded(t *testing.T) {
	err := Classify(fmt.Errorf("request: %w", context.DeadlineExceeded))

	assert.Equal(t, KindUnavailable, err.Kind)
	assert.False(t, err.Retryable)
}

func TestClassifyHTTPError(t *testing.T) {
	err := Classify(&HTTPError{StatusCode: 429, Body: "quota exceeded"})

	assert.Equal(t, KindRateLimit, err.Kind)
	assert.True(t, err.Retryable)
	assert.Equal(t, "quota exceeded", err.Details)
}

func TestClassifyOpenAIError(t *testing.T) {
	err := Classify(&openai.APIError{HTTPStatusCode: 500, Message: "boom"})

	assert.Equal(t, KindServerError, err.Kind)
	assert.Equal(t, 500, err.HTTPCode)
}

func TestClassifyUnknownError(t *testing.T) {
	err := Classify(errors.New("connection reset"))

	require.NotNil(t, err)
	assert.Equal(t, KindUnknown, err.Kind)
	assert.Equal(t, "connection reset", err.Details)
	assert.NotEmpty(t, err.UserMessage)
}

func TestClassifiedErrorMessage(t *testing.T) {
	assert.Equal(t, "RATE_LIMIT: quota", NewError(KindRateLimit, 429, "quota").Error())
	assert.Equal(t, "UNKNOWN", NewError(KindUnknown, 0, "").Error())
}
