package debounce

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDoRunsAfterWait(t *testing.T) {
	d := New(20 * time.Millisecond)
	start := time.Now()
	var ran bool
	err := d.Do(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, ran)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDoLaterCallSupersedesPending(t *testing.T) {
	d := New(50 * time.Millisecond)
	var runs atomic.Int32

	first := make(chan error, 1)
	go func() {
		first <- d.Do(context.Background(), func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()
	time.Sleep(10 * time.Millisecond)

	err := d.Do(context.Background(), func(context.Context) error {
		runs.Add(1)
		return nil
	})
	assert.NoError(t, err)
	assert.ErrorIs(t, <-first, ErrSuperseded)
	assert.Equal(t, int32(1), runs.Load())
}

// A slow earlier call that finishes after a newer one started must not win.
func TestDoLaterCallSupersedesInFlight(t *testing.T) {
	d := New(time.Millisecond)
	started := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		first <- d.Do(context.Background(), func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})
	}()
	<-started

	assert.NoError(t, d.Do(context.Background(), func(context.Context) error { return nil }))
	assert.ErrorIs(t, <-first, ErrSuperseded)
}

func TestDoCallerCancel(t *testing.T) {
	d := New(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Do(ctx, func(context.Context) error { return errors.New("unreachable") })
	assert.ErrorIs(t, err, context.Canceled)
}
