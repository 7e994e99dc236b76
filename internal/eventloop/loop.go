package eventloop

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned when work is posted to a closed loop.
var ErrClosed = errors.New("event loop closed")

// Loop runs posted tasks one at a time on a single goroutine, giving the
// scan pipeline the single-threaded model of a UI event thread.
type Loop struct {
	mu     sync.RWMutex
	closed bool
	tasks  chan func()
	done   chan struct{}
}

// New starts a loop whose queue holds up to buffer pending tasks.
func New(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 256
	}
	l := &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

// Post enqueues fn.  It blocks while the queue is full and returns
// ErrClosed once Close has been called.  Must not be called from a task
// when the queue may be full.
func (l *Loop) Post(fn func()) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrClosed
	}
	l.tasks <- fn
	return nil
}

// Do runs fn on the loop and waits for it.  If ctx expires first Do returns
// ctx.Err(); fn still runs when its turn comes.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	ch := make(chan struct{})
	if err := l.Post(func() {
		defer close(ch)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AfterFunc schedules fn to run on the loop after d.  The returned func
// cancels it and reports whether it was stopped before being queued.
func (l *Loop) AfterFunc(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, func() {
		// Timers outliving the loop are dropped.
		_ = l.Post(fn)
	})
	return t.Stop
}

// Close stops accepting work, drains queued tasks and waits for the loop
// goroutine to exit.  Safe to call more than once; must not be called from
// a task.
func (l *Loop) Close() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.tasks)
	}
	l.mu.Unlock()
	<-l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for fn := range l.tasks {
		fn()
	}
}
