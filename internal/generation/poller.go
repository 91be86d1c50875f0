package generation

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// PollInterval is fixed; the work is human-scale so there is no backoff.
const PollInterval = 2000 * time.Millisecond

type loop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Poller observes generation tasks. Each slot (one UI place, e.g. the
// "generate from URL" dialog) has at most one active loop.
type Poller struct {
	api      API
	interval time.Duration

	// OnUpdate, when set, receives every observed task state in order.
	OnUpdate func(slot string, t Task)

	mu    sync.Mutex
	loops map[string]*loop
}

func NewPoller(api API, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = PollInterval
	}
	return &Poller{api: api, interval: interval, loops: map[string]*loop{}}
}

// Run submits url and polls the returned handle until it is terminal or ctx
// is done. A prior loop on the same slot is cancelled and drained first.
// Cancelling only stops observation; the backend task keeps running.
func (p *Poller) Run(ctx context.Context, slot, url string) (Task, error) {
	ctx, l := p.claim(ctx, slot)
	defer p.release(slot, l)

	id, err := p.api.Submit(ctx, url)
	if err != nil {
		return Task{}, fmt.Errorf("submit generation: %w", err)
	}
	log.Printf("generation submitted: slot=%s task=%s", slot, id)
	return p.watch(ctx, slot, id)
}

// Watch polls an already submitted handle on slot.
func (p *Poller) Watch(ctx context.Context, slot string, id TaskID) (Task, error) {
	ctx, l := p.claim(ctx, slot)
	defer p.release(slot, l)
	return p.watch(ctx, slot, id)
}

// Cancel stops the loop on slot, if any, and waits for it to exit.
func (p *Poller) Cancel(slot string) {
	p.mu.Lock()
	l := p.loops[slot]
	p.mu.Unlock()
	if l != nil {
		l.cancel()
		<-l.done
	}
}

func (p *Poller) Active(slot string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.loops[slot]
	return ok
}

func (p *Poller) claim(ctx context.Context, slot string) (context.Context, *loop) {
	ctx, cancel := context.WithCancel(ctx)
	l := &loop{cancel: cancel, done: make(chan struct{})}

	p.mu.Lock()
	prev := p.loops[slot]
	p.loops[slot] = l
	p.mu.Unlock()

	if prev != nil {
		prev.cancel()
		<-prev.done
	}
	return ctx, l
}

func (p *Poller) release(slot string, l *loop) {
	p.mu.Lock()
	if p.loops[slot] == l {
		delete(p.loops, slot)
	}
	p.mu.Unlock()
	l.cancel()
	close(l.done)
}

// watch is strictly sequential: the next poll is only scheduled after the
// previous one returned, so a terminal state is observed exactly once.
func (p *Poller) watch(ctx context.Context, slot string, id TaskID) (Task, error) {
	t := time.NewTimer(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return Task{}, ctx.Err()
		case <-t.C:
		}

		task, err := p.api.Status(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return Task{}, ctx.Err()
			}
			return Task{}, fmt.Errorf("poll task %s: %w", id, err)
		}
		if task.ID == "" {
			task.ID = id
		}
		if err := task.Check(); err != nil {
			return Task{}, err
		}
		if p.OnUpdate != nil {
			p.OnUpdate(slot, task)
		}

		switch task.Status {
		case StatusCompleted:
			return task, nil
		case StatusFailed:
			return task, &TaskFailedError{ID: id, Category: Classify(task.Error), Raw: task.Error}
		}
		t.Reset(p.interval)
	}
}
