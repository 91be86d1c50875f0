package debounce

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrSuperseded = errors.New("superseded by a newer request")

// Debouncer runs at most the latest of a burst of calls. Ordering is by
// issuance: a call started later always wins, even if an earlier one answers
// last.
type Debouncer struct {
	wait time.Duration

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func New(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

func (d *Debouncer) Do(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.mu.Lock()
	d.seq++
	mine := d.seq
	if d.cancel != nil {
		d.cancel()
	}
	d.cancel = cancel
	d.mu.Unlock()

	t := time.NewTimer(d.wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		if d.superseded(mine) {
			return ErrSuperseded
		}
		return ctx.Err()
	case <-t.C:
	}

	err := fn(ctx)
	if d.superseded(mine) {
		return ErrSuperseded
	}
	return err
}

func (d *Debouncer) superseded(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq != seq
}
