package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/common/validation"
	"insight-workers/pkg/registry"
)

type echoInput struct {
	Query string `json:"query"`
}

type echoOutput struct {
	Echo string `json:"echo"`
}

func echo(ctx context.Context, in *echoInput) (*echoOutput, error) {
	if in.Query == "boom" {
		return nil, errors.NewReportNoDataError()
	}
	return &echoOutput{Echo: in.Query}, nil
}

func testValidator(t *testing.T) *validation.SchemaValidator {
	t.Helper()
	v, err := validation.NewSchemaValidator(&registry.ActivityRegistry{Activities: []registry.Activity{{
		ID:       "bi.test.echo",
		TaskType: "echo",
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"query"},
		},
	}}})
	require.NoError(t, err)
	return v
}

func TestProcess(t *testing.T) {
	r := NewRunner("echo", time.Second, logger.NewNoOpLogger(), WithValidator(testValidator(t)), WithObservability(nil))

	tests := []struct {
		name      string
		variables string
		want      string
		wantCode  errors.ErrorCode
	}{
		{name: "decodes and executes", variables: `{"query":"win rate"}`, want: "win rate"},
		{name: "schema violation", variables: `{"other":1}`, wantCode: errors.ErrCodeInvalidInput},
		{name: "decode failure", variables: `{"query":7}`, wantCode: errors.ErrCodeInvalidInput},
		{name: "executor error passes through", variables: `{"query":"boom"}`, wantCode: errors.ErrCodeReportNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Process(context.Background(), r, tt.variables, echo)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.wantCode), err.Error())
				assert.Nil(t, out)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Echo)
		})
	}
}

func TestProcess_WithoutValidator(t *testing.T) {
	r := NewRunner("echo", 0, logger.NewNoOpLogger())
	assert.Equal(t, 30*time.Second, r.timeout)
	assert.Equal(t, "echo", r.TaskType())

	out, err := Process(context.Background(), r, "", echo)
	require.NoError(t, err)
	assert.Equal(t, "", out.Echo)
}

func TestExecuteWithRetry(t *testing.T) {
	retry := &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	t.Run("retries transient errors", func(t *testing.T) {
		calls := 0
		got, err := executeWithRetry(context.Background(), retry, func(ctx context.Context) (interface{}, error) {
			calls++
			if calls < 3 {
				return nil, stderrors.New("rpc error: code = Unavailable")
			}
			return "ok", nil
		}, "topology")
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		_, err := executeWithRetry(context.Background(), retry, func(ctx context.Context) (interface{}, error) {
			calls++
			return nil, stderrors.New("connection refused")
		}, "topology")
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		stdErr, ok := errors.AsStandardError(err)
		require.True(t, ok)
		assert.True(t, stdErr.Retryable)
		assert.Contains(t, stdErr.Details, "after 3 attempts")
	})

	t.Run("permanent errors are not retried", func(t *testing.T) {
		calls := 0
		_, err := executeWithRetry(context.Background(), retry, func(ctx context.Context) (interface{}, error) {
			calls++
			return nil, stderrors.New("permission denied")
		}, "topology")
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		stdErr, _ := errors.AsStandardError(err)
		assert.False(t, stdErr.Retryable)
	})

	t.Run("stops when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		slow := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}
		_, err := executeWithRetry(ctx, slow, func(ctx context.Context) (interface{}, error) {
			return nil, stderrors.New("deadline exceeded")
		}, "topology")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
