package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Session is one continuous period of capture-surface activity.  It bounds
// the debounce window: at most one decode is accepted per session.
type Session struct {
	id        string
	startedAt time.Time
	accepted  atomic.Bool
	ended     atomic.Bool
}

func (s *Session) ID() string           { return s.id }
func (s *Session) StartedAt() time.Time { return s.startedAt }
func (s *Session) Accepted() bool       { return s.accepted.Load() }
func (s *Session) Ended() bool          { return s.ended.Load() }

// AcceptedEvent is the single decode accepted within a session.
type AcceptedEvent struct {
	SessionID  string
	Payload    string
	AcceptedAt time.Time
}

// Debouncer gates raw decode callbacks down to one accepted event per
// session.
type Debouncer struct {
	mu      sync.Mutex
	current *Session
	now     func() time.Time
}

func NewDebouncer() *Debouncer {
	return &Debouncer{now: func() time.Time { return time.Now().UTC() }}
}

// Begin discards any current session and starts a fresh one with
// accepted=false.  Called whenever the capture surface gains focus.
func (d *Debouncer) Begin() *Session {
	s := &Session{id: uuid.NewString(), startedAt: d.now()}

	d.mu.Lock()
	prev := d.current
	d.current = s
	d.mu.Unlock()

	if prev != nil {
		prev.ended.Store(true)
	}
	return s
}

// End invalidates the current session.  Decode events still queued for it
// are suppressed when they arrive.
func (d *Debouncer) End() {
	d.mu.Lock()
	prev := d.current
	d.current = nil
	d.mu.Unlock()

	if prev != nil {
		prev.ended.Store(true)
	}
}

// Current returns the active session, or nil between End and Begin.
func (d *Debouncer) Current() *Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// OnRawDecode accepts payload if s is the live session and nothing was
// accepted in it yet.  The accepted check-and-set is a single atomic step.
func (d *Debouncer) OnRawDecode(s *Session, payload string) (AcceptedEvent, bool) {
	if s == nil || s.ended.Load() {
		return AcceptedEvent{}, false
	}
	if d.Current() != s {
		return AcceptedEvent{}, false
	}
	if !s.accepted.CompareAndSwap(false, true) {
		return AcceptedEvent{}, false
	}
	return AcceptedEvent{SessionID: s.id, Payload: payload, AcceptedAt: d.now()}, true
}
