package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bolterrors "github.com/corebolt/neobolt/errors"
)

func TestDoSucceedsWithoutRetry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultPolicy(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	policy := Policy{MaxRetries: 3, Base: time.Millisecond, Max: 10 * time.Millisecond}
	err := Do(context.Background(), policy, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return bolterrors.New(bolterrors.KindConnection, "transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	policy := Policy{MaxRetries: 2, Base: time.Millisecond, Max: 10 * time.Millisecond}
	err := Do(context.Background(), policy, func(ctx context.Context) error {
		calls++
		return bolterrors.New(bolterrors.KindConnection, "still down")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls) // initial attempt + 2 retries
}

func TestDoDoesNotRetryNonTransientErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultPolicy(), func(ctx context.Context) error {
		calls++
		return bolterrors.New(bolterrors.KindCypher, "bad query")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoDoesNotRetryPlainErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultPolicy(), func(ctx context.Context) error {
		calls++
		return errors.New("not ours")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
