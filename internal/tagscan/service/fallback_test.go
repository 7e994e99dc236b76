package service_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/BrandonDHaskell/tagscan/internal/tagscan/service"
)

func newTestFallback(timeout time.Duration) (*service.FallbackMachine, *manualScheduler, *recordingPresenter) {
	sched := &manualScheduler{}
	p := &recordingPresenter{}
	m := service.NewFallbackMachine(sched, p, service.FallbackConfig{Timeout: timeout}, silentLogger())
	return m, sched, p
}

func TestFallback_InitialStateIdle(t *testing.T) {
	m, _, _ := newTestFallback(0)
	if m.State() != service.StateIdle {
		t.Errorf("expected idle, got %s", m.State())
	}
}

func TestFallback_TimerFiresOnce(t *testing.T) {
	m, sched, p := newTestFallback(5 * time.Second)

	if err := m.NotFound("B2"); err != nil {
		t.Fatalf("NotFound: %v", err)
	}
	if m.State() != service.StateNoticeShown {
		t.Fatalf("expected notice_shown, got %s", m.State())
	}

	sched.Advance(4999 * time.Millisecond)
	if p.count("scanner") != 0 {
		t.Fatal("timer fired early")
	}

	sched.Advance(time.Millisecond)
	sched.Advance(time.Minute)

	if m.State() != service.StateIdle {
		t.Errorf("expected idle after timeout, got %s", m.State())
	}
	want := []string{"show:B2", "hide", "scanner"}
	if got := p.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls=%v want %v", got, want)
	}
}

func TestFallback_DefaultTimeout(t *testing.T) {
	m, sched, p := newTestFallback(0)
	_ = m.NotFound("B2")

	sched.Advance(service.DefaultNoticeTimeout - time.Millisecond)
	if p.count("scanner") != 0 {
		t.Fatal("timer fired before the default timeout")
	}
	sched.Advance(time.Millisecond)
	if p.count("scanner") != 1 {
		t.Errorf("expected 1 navigateToScanner, got %d", p.count("scanner"))
	}
}

func TestFallback_TeardownCancelsTimer(t *testing.T) {
	m, sched, p := newTestFallback(5 * time.Second)
	_ = m.NotFound("B2")

	sched.Advance(2 * time.Second)
	m.Teardown()

	if m.State() != service.StateTornDown {
		t.Fatalf("expected torn_down, got %s", m.State())
	}
	if sched.Pending() != 0 {
		t.Errorf("expected timer to be disarmed, %d pending", sched.Pending())
	}

	sched.Advance(time.Hour)
	if p.count("scanner") != 0 {
		t.Error("timer fired after teardown")
	}
}

func TestFallback_QueuedFireAfterTeardownIgnored(t *testing.T) {
	// A scheduler whose cancel cannot stop an already-dispatched callback.
	var fire func()
	sched := schedulerFunc(func(d time.Duration, fn func()) func() bool {
		fire = fn
		return func() bool { return false }
	})
	p := &recordingPresenter{}
	m := service.NewFallbackMachine(sched, p, service.FallbackConfig{}, silentLogger())

	_ = m.NotFound("B2")
	m.Teardown()
	fire()

	if p.count("scanner") != 0 {
		t.Error("queued timer callback acted on a torn-down view")
	}
	if m.State() != service.StateTornDown {
		t.Errorf("expected torn_down, got %s", m.State())
	}
}

func TestFallback_TornDownIsTerminal(t *testing.T) {
	m, sched, _ := newTestFallback(time.Second)
	m.Teardown()
	m.Teardown()

	if err := m.NotFound("B2"); !errors.Is(err, service.ErrTornDown) {
		t.Errorf("expected ErrTornDown, got %v", err)
	}
	if sched.Pending() != 0 {
		t.Error("expected no timer to be armed from torn_down")
	}
}

func TestFallback_SecondNotFoundWhileShown(t *testing.T) {
	m, sched, p := newTestFallback(time.Second)
	_ = m.NotFound("B2")

	if err := m.NotFound("C3"); !errors.Is(err, service.ErrNoticeActive) {
		t.Errorf("expected ErrNoticeActive, got %v", err)
	}
	if sched.Pending() != 1 {
		t.Errorf("expected a single armed timer, got %d", sched.Pending())
	}

	sched.Advance(time.Second)
	if p.count("scanner") != 1 {
		t.Errorf("expected 1 navigateToScanner, got %d", p.count("scanner"))
	}
}

func TestFallback_ReusableAfterRecovery(t *testing.T) {
	m, sched, p := newTestFallback(time.Second)
	_ = m.NotFound("B2")
	sched.Advance(time.Second)

	if err := m.NotFound("C3"); err != nil {
		t.Fatalf("NotFound after recovery: %v", err)
	}
	sched.Advance(time.Second)
	if p.count("scanner") != 2 {
		t.Errorf("expected 2 navigateToScanner, got %d", p.count("scanner"))
	}
}

func TestFallback_DismissKeepsTimerArmed(t *testing.T) {
	m, sched, p := newTestFallback(5 * time.Second)
	_ = m.NotFound("B2")

	m.Dismiss()
	m.Dismiss()
	if m.State() != service.StateNoticeShown {
		t.Fatalf("expected notice_shown after dismiss, got %s", m.State())
	}

	sched.Advance(5 * time.Second)

	want := []string{"show:B2", "hide", "scanner"}
	if got := p.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls=%v want %v", got, want)
	}
}

func TestFallback_OnRecoverHook(t *testing.T) {
	sched := &manualScheduler{}
	p := &recordingPresenter{}
	recovered := 0
	m := service.NewFallbackMachine(sched, p, service.FallbackConfig{
		Timeout:   time.Second,
		OnRecover: func() { recovered++ },
	}, silentLogger())

	_ = m.NotFound("B2")
	sched.Advance(time.Second)

	if recovered != 1 {
		t.Errorf("expected OnRecover once, got %d", recovered)
	}
}

type schedulerFunc func(d time.Duration, fn func()) func() bool

func (f schedulerFunc) AfterFunc(d time.Duration, fn func()) func() bool { return f(d, fn) }
