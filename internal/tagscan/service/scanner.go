package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/BrandonDHaskell/tagscan/internal/tagscan/types"
)

// DecodeEvent is one raw decode callback from the capture surface.
type DecodeEvent struct {
	Payload string

	// Symbology as reported by the decoder; empty when unknown.
	Symbology types.Symbology

	// Session the event was emitted in.  Nil means the session that is
	// current when the event is handled.
	Session *Session
}

type Dependencies struct {
	Resolver      *Resolver
	Presenter     Presenter
	Scheduler     Scheduler
	Logger        *log.Logger
	NoticeTimeout time.Duration     // 0 = DefaultNoticeTimeout
	Symbologies   []types.Symbology // nil = types.DefaultSymbologies
}

// Scanner runs the scan-to-resolution pipeline: decode events are gated by
// the debouncer, resolved against the index and handed to the presenter,
// with not-found results routed through a FallbackMachine.
type Scanner struct {
	debouncer     *Debouncer
	resolver      *Resolver
	presenter     Presenter
	scheduler     Scheduler
	logger        *log.Logger
	noticeTimeout time.Duration
	symbologies   map[types.Symbology]struct{}

	mu       sync.Mutex
	fallback *FallbackMachine
}

func NewScanner(d Dependencies) *Scanner {
	syms := d.Symbologies
	if syms == nil {
		syms = types.DefaultSymbologies
	}
	set := make(map[types.Symbology]struct{}, len(syms))
	for _, sym := range syms {
		set[sym] = struct{}{}
	}

	return &Scanner{
		debouncer:     NewDebouncer(),
		resolver:      d.Resolver,
		presenter:     d.Presenter,
		scheduler:     d.Scheduler,
		logger:        d.Logger,
		noticeTimeout: d.NoticeTimeout,
		symbologies:   set,
	}
}

// Focus starts a fresh scan session.  The presentation layer calls it every
// time the capture surface gains focus.
func (s *Scanner) Focus() *Session {
	sess := s.debouncer.Begin()
	s.logf("scan session %s started", sess.ID())
	return sess
}

// Blur ends the current scan session.
func (s *Scanner) Blur() {
	s.debouncer.End()
}

// Session returns the live scan session, or nil while the surface is blurred.
func (s *Scanner) Session() *Session {
	return s.debouncer.Current()
}

// Accepts reports whether decode events of sym are considered.
func (s *Scanner) Accepts(sym types.Symbology) bool {
	if sym == "" {
		return true
	}
	_, ok := s.symbologies[sym]
	return ok
}

// HandleDecode processes one raw decode callback.  accepted is false when
// the event was suppressed; res is only meaningful when accepted is true.
func (s *Scanner) HandleDecode(ctx context.Context, ev DecodeEvent) (res types.Resolution, accepted bool, err error) {
	if !s.Accepts(ev.Symbology) {
		return types.Resolution{}, false, nil
	}

	sess := ev.Session
	if sess == nil {
		sess = s.debouncer.Current()
	}
	acc, ok := s.debouncer.OnRawDecode(sess, ev.Payload)
	if !ok {
		return types.Resolution{}, false, nil
	}

	res, err = s.resolver.Resolve(ctx, acc.Payload)
	if err != nil {
		return types.Resolution{}, true, err
	}

	if res.IsFound() {
		s.logf("service tag %q resolved to asset %q", res.RawCode, res.Record.AssetTag)
		// A notice left over from an earlier not-found must not recover on top
		// of the detail view.
		s.CloseResult()
		s.presenter.NavigateToDetail(res.Record)
		return res, true, nil
	}

	fb := s.openFallback()
	return res, true, fb.NotFound(res.RawCode)
}

// DismissNotice hides the not-found notice early, if one is shown.
func (s *Scanner) DismissNotice() {
	if fb := s.Fallback(); fb != nil {
		fb.Dismiss()
	}
}

// CloseResult is called when the result view is destroyed before the
// notice timed out (e.g. the user navigated back).
func (s *Scanner) CloseResult() {
	s.mu.Lock()
	fb := s.fallback
	s.fallback = nil
	s.mu.Unlock()

	if fb != nil {
		fb.Teardown()
	}
}

// Fallback returns the machine of the current result view, if any.
func (s *Scanner) Fallback() *FallbackMachine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fallback
}

func (s *Scanner) openFallback() *FallbackMachine {
	var fb *FallbackMachine
	fb = NewFallbackMachine(s.scheduler, s.presenter, FallbackConfig{
		Timeout:   s.noticeTimeout,
		OnRecover: func() { s.recovered(fb) },
	}, s.logger)

	s.mu.Lock()
	prev := s.fallback
	s.fallback = fb
	s.mu.Unlock()

	// A new result replaces the previous result view.
	if prev != nil {
		prev.Teardown()
	}
	return fb
}

func (s *Scanner) recovered(fb *FallbackMachine) {
	s.mu.Lock()
	if s.fallback == fb {
		s.fallback = nil
	}
	s.mu.Unlock()

	s.Focus()
}

func (s *Scanner) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
