package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEach_VisitsEveryIndex(t *testing.T) {
	const n = 100
	var seen [n]atomic.Int32

	err := ForEach(context.Background(), n, 4, func(_ context.Context, i int) error {
		seen[i].Add(1)
		return nil
	})
	require.NoError(t, err)
	for i := range seen {
		assert.Equal(t, int32(1), seen[i].Load(), "index %d", i)
	}
}

func TestForEach_RespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	err := ForEach(context.Background(), 50, 3, func(_ context.Context, i int) error {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		inFlight.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestForEach_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := ForEach(context.Background(), 20, 2, func(_ context.Context, i int) error {
		if i == 5 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestForEach_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	err := ForEach(ctx, 10, 2, func(context.Context, int) error {
		calls.Add(1)
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}

func TestForEach_Empty(t *testing.T) {
	require.NoError(t, ForEach(context.Background(), 0, 0, nil))
}
