package webclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoWithRetrySuccessFirstAttempt(t *testing.T) {
	calls := 0
	status, body, err := DoWithRetry(context.Background(), 3, time.Millisecond, func() (int, []byte, error) {
		calls++
		return 200, []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, []byte("ok"), body)
	assert.Equal(t, 1, calls)
}

func TestDoWithRetryRetriesTransient(t *testing.T) {
	calls := 0
	status, _, err := DoWithRetry(context.Background(), 3, time.Millisecond, func() (int, []byte, error) {
		calls++
		if calls < 3 {
			return 429, nil, nil
		}
		return 200, nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, 3, calls)
}

func TestDoWithRetryDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	status, _, err := DoWithRetry(context.Background(), 3, time.Millisecond, func() (int, []byte, error) {
		calls++
		return 400, nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 400, status)
	assert.Equal(t, 1, calls, "4xx other than 429 is terminal")
}

func TestDoWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	_, _, err := DoWithRetry(context.Background(), 3, time.Millisecond, func() (int, []byte, error) {
		calls++
		return 0, nil, boom
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 3, calls)
}

func TestDoWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, _, err := DoWithRetry(ctx, 5, time.Hour, func() (int, []byte, error) {
		calls++
		return 500, nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancellation must stop the backoff wait")
}
