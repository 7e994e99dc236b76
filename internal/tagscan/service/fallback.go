package service

import (
	"errors"
	"log"
	"sync"
	"time"
)

// DefaultNoticeTimeout is how long the not-found notice stays up before the
// scanner is shown again.
const DefaultNoticeTimeout = 5 * time.Second

var (
	ErrNoticeActive = errors.New("not-found notice already shown")
	ErrTornDown     = errors.New("fallback torn down")
)

// FallbackState is a state of the not-found fallback machine.
type FallbackState int

const (
	StateIdle FallbackState = iota
	StateNoticeShown
	StateTornDown
)

func (s FallbackState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNoticeShown:
		return "notice_shown"
	case StateTornDown:
		return "torn_down"
	default:
		return "unknown"
	}
}

// FallbackMachine drives the timed not-found notice for one hosting view.
// Once torn down it never transitions again; create a new one per view.
type FallbackMachine struct {
	mu        sync.Mutex
	state     FallbackState
	visible   bool
	rawCode   string
	gen       uint64
	cancel    func() bool
	timeout   time.Duration
	scheduler Scheduler
	presenter Presenter
	onRecover func()
	logger    *log.Logger
}

// FallbackConfig holds the parameters for NewFallbackMachine.
type FallbackConfig struct {
	// Timeout before auto-recovery.  Defaults to DefaultNoticeTimeout.
	Timeout time.Duration

	// OnRecover, if set, runs after NavigateToScanner on auto-recovery.
	OnRecover func()
}

func NewFallbackMachine(sched Scheduler, p Presenter, cfg FallbackConfig, logger *log.Logger) *FallbackMachine {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultNoticeTimeout
	}
	return &FallbackMachine{
		state:     StateIdle,
		timeout:   timeout,
		scheduler: sched,
		presenter: p,
		onRecover: cfg.OnRecover,
		logger:    logger,
	}
}

func (m *FallbackMachine) State() FallbackState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// NotFound shows the notice for rawCode and arms the recovery timer.
func (m *FallbackMachine) NotFound(rawCode string) error {
	m.mu.Lock()
	switch m.state {
	case StateTornDown:
		m.mu.Unlock()
		return ErrTornDown
	case StateNoticeShown:
		m.mu.Unlock()
		return ErrNoticeActive
	}
	m.state = StateNoticeShown
	m.visible = true
	m.rawCode = rawCode
	m.gen++
	gen := m.gen
	m.cancel = m.scheduler.AfterFunc(m.timeout, func() { m.fire(gen) })
	m.mu.Unlock()

	m.logf("service tag %q not found; returning to scanner in %s", rawCode, m.timeout)
	m.presenter.ShowNotFoundNotice(rawCode)
	return nil
}

// Dismiss hides the notice early.  The recovery timer stays armed.
func (m *FallbackMachine) Dismiss() {
	m.mu.Lock()
	if m.state != StateNoticeShown || !m.visible {
		m.mu.Unlock()
		return
	}
	m.visible = false
	m.mu.Unlock()

	m.presenter.HideNotFoundNotice()
}

// Teardown is called when the hosting view is destroyed.  It cancels any
// armed timer synchronously; a callback already queued is ignored.
func (m *FallbackMachine) Teardown() {
	m.mu.Lock()
	if m.state == StateTornDown {
		m.mu.Unlock()
		return
	}
	prev := m.state
	raw := m.rawCode
	m.state = StateTornDown
	m.gen++
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if prev == StateNoticeShown {
		m.logf("not-found notice for %q torn down before timeout", raw)
	}
}

func (m *FallbackMachine) fire(gen uint64) {
	m.mu.Lock()
	if m.state != StateNoticeShown || m.gen != gen {
		m.mu.Unlock()
		return
	}
	m.state = StateIdle
	wasVisible := m.visible
	m.visible = false
	m.cancel = nil
	m.mu.Unlock()

	if wasVisible {
		m.presenter.HideNotFoundNotice()
	}
	m.presenter.NavigateToScanner()
	if m.onRecover != nil {
		m.onRecover()
	}
}

func (m *FallbackMachine) logf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}
