package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrWorkerClosed = errors.New("db: worker closed")

type TxFn func(ctx context.Context, tx *sql.Tx) error

// Commit describes the last snapshot write that committed.
type Commit struct {
	Label string
	At    time.Time
}

type writeJob struct {
	ctx   context.Context
	label string
	fn    TxFn
	res   chan error
}

// Worker serializes snapshot writes onto a single goroutine so that an
// import and a dev seed never interleave partial snapshots.
type Worker struct {
	db   *sql.DB
	jobs chan writeJob
	done chan struct{}
	now  func() time.Time

	mu     sync.RWMutex
	closed bool
	last   Commit
}

func NewWorker(db *sql.DB) *Worker {
	w := &Worker{
		db:   db,
		jobs: make(chan writeJob, 16),
		done: make(chan struct{}),
		now:  func() time.Time { return time.Now().UTC() },
	}
	go w.loop()
	return w
}

// Close waits for queued writes and stops the worker. Safe to call twice.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	close(w.jobs)
	w.mu.Unlock()
	<-w.done
}

// Do runs fn in a transaction on the worker goroutine. label names the
// write (e.g. "import inventory.json") in errors and in LastCommit. fn's
// error rolls the transaction back. If ctx expires while waiting, the
// transaction may still complete; its result is discarded.
func (w *Worker) Do(ctx context.Context, label string, fn TxFn) error {
	j := writeJob{ctx: ctx, label: label, fn: fn, res: make(chan error, 1)}

	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return fmt.Errorf("%s: %w", label, ErrWorkerClosed)
	}
	select {
	case w.jobs <- j:
		w.mu.RUnlock()
	case <-ctx.Done():
		w.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-j.res:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LastCommit reports the most recent committed write; ok is false before
// the first one.
func (w *Worker) LastCommit() (c Commit, ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last, !w.last.At.IsZero()
}

func (w *Worker) loop() {
	defer close(w.done)
	for j := range w.jobs {
		j.res <- w.run(j)
	}
}

func (w *Worker) run(j writeJob) error {
	if err := j.ctx.Err(); err != nil {
		return err
	}
	tx, err := w.db.BeginTx(j.ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", j.label, err)
	}
	if err := j.fn(j.ctx, tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", j.label, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", j.label, err)
	}

	w.mu.Lock()
	w.last = Commit{Label: j.label, At: w.now()}
	w.mu.Unlock()
	return nil
}
