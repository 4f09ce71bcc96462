// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parallel

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMap_PreservesOrderUnderReversedLatency(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	delays := map[string]time.Duration{
		"a": 40 * time.Millisecond,
		"b": 30 * time.Millisecond,
		"c": 20 * time.Millisecond,
		"d": 0,
	}

	var finished []string
	done := make(chan string, len(items))
	got, err := Map(context.Background(), items, 0, func(_ context.Context, s string) (string, error) {
		time.Sleep(delays[s])
		done <- s
		return strings.ToUpper(s), nil
	})
	require.NoError(t, err)
	close(done)
	for s := range done {
		finished = append(finished, s)
	}

	assert.Equal(t, []string{"A", "B", "C", "D"}, got)
	assert.Equal(t, "d", finished[0], "fastest item should complete first")
}

func TestMap_Empty(t *testing.T) {
	got, err := Map(context.Background(), []int{}, 4, func(_ context.Context, n int) (int, error) {
		return n, nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMap_RespectsWorkerLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 12)
	_, err := Map(context.Background(), items, 3, func(_ context.Context, _ int) (int, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return 0, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestMap_FailFast(t *testing.T) {
	boom := errors.New("boom")
	var cancelled atomic.Int32

	got, err := Map(context.Background(), []int{0, 1, 2}, 0, func(ctx context.Context, n int) (int, error) {
		if n == 1 {
			return 0, boom
		}
		select {
		case <-ctx.Done():
			cancelled.Add(1)
			return 0, ctx.Err()
		case <-time.After(time.Second):
			return n, nil
		}
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
	assert.Equal(t, int32(2), cancelled.Load(), "remaining calls observe cancellation")
}
