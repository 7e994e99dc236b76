package service_test

import (
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/BrandonDHaskell/tagscan/internal/tagscan/types"
)

func silentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// manualScheduler is a fake clock: callbacks run only when Advance moves
// virtual time past their deadline.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	at       time.Duration
	seq      int
	fn       func()
	canceled bool
	fired    bool
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t.fired || t.canceled {
			return false
		}
		t.canceled = true
		return true
	}
}

// Advance moves the clock forward by d, firing due callbacks in deadline
// order outside the lock.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.fired && !t.canceled && t.at <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.fn()
	}
}

// Pending returns the number of armed, unfired timers.
func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.canceled {
			n++
		}
	}
	return n
}

// recordingPresenter captures every outbound call in order.
type recordingPresenter struct {
	mu      sync.Mutex
	calls   []string
	details []types.AssetRecord
	notices []string

	onScanner func()
}

func (p *recordingPresenter) NavigateToDetail(rec types.AssetRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "detail:"+rec.ServiceTag)
	p.details = append(p.details, rec)
}

func (p *recordingPresenter) NavigateToScanner() {
	p.mu.Lock()
	p.calls = append(p.calls, "scanner")
	hook := p.onScanner
	p.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (p *recordingPresenter) ShowNotFoundNotice(rawCode string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "show:"+rawCode)
	p.notices = append(p.notices, rawCode)
}

func (p *recordingPresenter) HideNotFoundNotice() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "hide")
}

func (p *recordingPresenter) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.calls))
	copy(out, p.calls)
	return out
}

func (p *recordingPresenter) count(call string) int {
	n := 0
	for _, c := range p.Calls() {
		if c == call {
			n++
		}
	}
	return n
}
