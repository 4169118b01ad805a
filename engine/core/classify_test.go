package core_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgate/n8n-mcp/engine/core"
	"github.com/flowgate/n8n-mcp/pkg/logger"
)

func classifyCtx() context.Context {
	return logger.ContextWithLogger(context.Background(), logger.NewNop())
}

func TestClassify(t *testing.T) {
	t.Run("Should return nil for nil error", func(t *testing.T) {
		assert.Nil(t, core.Classify(classifyCtx(), nil))
	})
	t.Run("Should pass through an existing envelope unchanged", func(t *testing.T) {
		original := core.NewError(core.KindInvalidParams, "missing field: name")
		result := core.Classify(classifyCtx(), original)
		require.NotNil(t, result)
		assert.Equal(t, core.KindInvalidParams, result.Kind)
		assert.Equal(t, "missing field: name", result.Message)
	})
	t.Run("Should map HTTP status codes to the documented kinds", func(t *testing.T) {
		testCases := []struct {
			status int
			kind   core.Kind
		}{
			{400, core.KindInvalidParams},
			{401, core.KindAuthenticationError},
			{403, core.KindAuthorizationError},
			{404, core.KindNotFound},
			{405, core.KindAPIError},
			{429, core.KindRateLimitError},
			{500, core.KindAPIError},
			{502, core.KindAPIError},
			{503, core.KindAPIError},
			{504, core.KindAPIError},
		}
		for _, tc := range testCases {
			err := &core.RequestError{Status: tc.status, Method: "GET", Path: "/workflows"}
			result := core.Classify(classifyCtx(), err)
			require.NotNil(t, result, "status %d", tc.status)
			assert.Equal(t, tc.kind, result.Kind, "status %d", tc.status)
		}
	})
	t.Run("Should default unmapped status codes to api error", func(t *testing.T) {
		err := &core.RequestError{Status: 418, Method: "GET", Path: "/workflows", Message: "teapot"}
		result := core.Classify(classifyCtx(), err)
		assert.Equal(t, core.KindAPIError, result.Kind)
		assert.Contains(t, result.Message, "teapot")
		assert.Contains(t, result.Message, "418")
	})
	t.Run("Should hint at the settings object on 400 mentioning settings", func(t *testing.T) {
		err := &core.RequestError{
			Status: 400, Method: "POST", Path: "/workflows",
			Message: "request.body.settings is required",
		}
		result := core.Classify(classifyCtx(), err)
		assert.Equal(t, core.KindInvalidParams, result.Kind)
		assert.Contains(t, result.Message, "settings")
		assert.Contains(t, result.Message, "empty object")
	})
	t.Run("Should name the disallowed method on 405", func(t *testing.T) {
		err := &core.RequestError{Status: 405, Method: "DELETE", Path: "/executions/9"}
		result := core.Classify(classifyCtx(), err)
		assert.Contains(t, result.Message, "DELETE")
		assert.Contains(t, result.Message, "/executions/9")
	})
	t.Run("Should hint at the verb pair when a workflow update is rejected", func(t *testing.T) {
		for _, method := range []string{http.MethodPatch, http.MethodPut} {
			err := &core.RequestError{Status: 405, Method: method, Path: "/workflows/7"}
			result := core.Classify(classifyCtx(), err)
			assert.Equal(t, core.KindAPIError, result.Kind)
			assert.Contains(t, result.Message, "PUT")
			assert.Contains(t, result.Message, "PATCH")
		}
	})
	t.Run("Should not hint on 405 outside workflow updates", func(t *testing.T) {
		err := &core.RequestError{Status: 405, Method: "DELETE", Path: "/workflows/7"}
		result := core.Classify(classifyCtx(), err)
		assert.NotContains(t, result.Message, "versions differ")
	})
	t.Run("Should suggest checking the API key on 401", func(t *testing.T) {
		err := &core.RequestError{Status: 401, Method: "GET", Path: "/workflows"}
		result := core.Classify(classifyCtx(), err)
		assert.Contains(t, result.Message, "API key")
	})
	t.Run("Should classify connection failures as network errors", func(t *testing.T) {
		err := &core.RequestError{
			Method: "GET", Path: "/workflows",
			Err: errors.New("dial tcp 127.0.0.1:5678: connect: connection refused"),
		}
		result := core.Classify(classifyCtx(), err)
		assert.Equal(t, core.KindNetworkError, result.Kind)
	})
	t.Run("Should classify deadline exceeded as timeout", func(t *testing.T) {
		err := &core.RequestError{Method: "GET", Path: "/workflows", Err: context.DeadlineExceeded}
		result := core.Classify(classifyCtx(), err)
		assert.Equal(t, core.KindTimeoutError, result.Kind)
	})
	t.Run("Should classify generic errors as internal", func(t *testing.T) {
		result := core.Classify(classifyCtx(), errors.New("boom"))
		assert.Equal(t, core.KindInternalError, result.Kind)
		assert.Equal(t, "boom", result.Message)
	})
	t.Run("Should redact secrets even in internally generated messages", func(t *testing.T) {
		result := core.Classify(classifyCtx(), errors.New("failed with api_key=supersecret"))
		assert.Equal(t, "failed with api_key=[REDACTED]", result.Message)
		assert.NotContains(t, result.Message, "supersecret")
	})
}
