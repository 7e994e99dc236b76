package service_test

import (
	"sync"
	"testing"

	"github.com/BrandonDHaskell/tagscan/internal/tagscan/service"
)

func TestOnRawDecode_OneAcceptPerSession(t *testing.T) {
	for _, n := range []int{1, 2, 10, 250} {
		d := service.NewDebouncer()
		sess := d.Begin()

		accepted := 0
		for i := 0; i < n; i++ {
			if _, ok := d.OnRawDecode(sess, "A1"); ok {
				accepted++
			}
		}
		if accepted != 1 {
			t.Errorf("n=%d: expected exactly 1 accepted event, got %d", n, accepted)
		}
	}
}

func TestOnRawDecode_ConcurrentCallbacks(t *testing.T) {
	d := service.NewDebouncer()
	sess := d.Begin()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := d.OnRawDecode(sess, "A1"); ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("expected exactly 1 accepted event, got %d", accepted)
	}
}

func TestOnRawDecode_EventCarriesPayloadAndSession(t *testing.T) {
	d := service.NewDebouncer()
	sess := d.Begin()

	ev, ok := d.OnRawDecode(sess, "A1")
	if !ok {
		t.Fatal("expected first decode to be accepted")
	}
	if ev.Payload != "A1" {
		t.Errorf("expected payload A1, got %q", ev.Payload)
	}
	if ev.SessionID != sess.ID() {
		t.Errorf("expected session id %q, got %q", sess.ID(), ev.SessionID)
	}
	if ev.AcceptedAt.IsZero() {
		t.Error("expected accepted_at to be set")
	}
	if !sess.Accepted() {
		t.Error("expected session to be marked accepted")
	}
}

func TestBegin_FreshSessionAlwaysAccepts(t *testing.T) {
	d := service.NewDebouncer()

	first := d.Begin()
	if _, ok := d.OnRawDecode(first, "A1"); !ok {
		t.Fatal("expected first session to accept")
	}

	second := d.Begin()
	if second.ID() == first.ID() {
		t.Error("expected a new session id")
	}
	if second.Accepted() {
		t.Error("expected fresh session to start with accepted=false")
	}
	if _, ok := d.OnRawDecode(second, "A1"); !ok {
		t.Error("expected decode in the new session to be accepted")
	}
}

func TestEnd_SuppressesInFlightEvents(t *testing.T) {
	d := service.NewDebouncer()
	sess := d.Begin()
	d.End()

	if !sess.Ended() {
		t.Error("expected session to be ended")
	}
	if _, ok := d.OnRawDecode(sess, "A1"); ok {
		t.Error("expected decode against an ended session to be suppressed")
	}
	if d.Current() != nil {
		t.Error("expected no current session after End")
	}
}

func TestBegin_StaleSessionSuppressed(t *testing.T) {
	d := service.NewDebouncer()
	stale := d.Begin()
	d.End()
	_ = d.Begin()

	if _, ok := d.OnRawDecode(stale, "A1"); ok {
		t.Error("expected decode queued in a previous session to be discarded")
	}
}

func TestOnRawDecode_NilSession(t *testing.T) {
	d := service.NewDebouncer()
	if _, ok := d.OnRawDecode(nil, "A1"); ok {
		t.Error("expected nil session to suppress")
	}
}
