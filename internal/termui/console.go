package termui

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/BrandonDHaskell/tagscan/internal/eventloop"
	"github.com/BrandonDHaskell/tagscan/internal/tagscan/service"
	"github.com/BrandonDHaskell/tagscan/internal/tagscan/types"
)

const helpText = `commands:
  <payload>                 decode event (symbology unknown)
  @<symbology> <payload>    decode event with symbology, e.g. @ean13 4006381333931
  :frames <n> <payload>     n identical decode events, as continuous scanning emits
  :focus | :blur            capture surface gained / lost focus
  :back                     leave the result view and return to the scanner
  :dismiss                  close the not-found notice early
  :torch | :flip            toggle torch / camera facing
  :status                   show session and notice state
  :quit
`

type Dependencies struct {
	Logger    *log.Logger
	Loop      *eventloop.Loop
	Scanner   *service.Scanner
	Presenter *Presenter
}

// Console feeds line-oriented input into the scanner as presentation-layer
// events.  Every event runs on the event loop.
type Console struct {
	logger    *log.Logger
	loop      *eventloop.Loop
	scanner   *service.Scanner
	presenter *Presenter

	torch  bool
	facing string
}

func NewConsole(d Dependencies) *Console {
	return &Console{
		logger:    d.Logger,
		loop:      d.Loop,
		scanner:   d.Scanner,
		presenter: d.Presenter,
		facing:    "back",
	}
}

var errQuit = errors.New("quit")

// Run shows the scanner and processes lines from in until EOF, :quit or ctx
// is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	if err := c.loop.Do(ctx, func() {
		c.scanner.Focus()
		c.presenter.NavigateToScanner()
	}); err != nil {
		return err
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if err := c.handle(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				return err
			}
		}
	}
}

func (c *Console) handle(ctx context.Context, line string) error {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil
	}

	start := time.Now()
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")

	var err error
	switch {
	case cmd == ":quit":
		return errQuit
	case cmd == ":help":
		c.presenter.Printf("%s", helpText)
	case cmd == ":frames":
		err = c.frames(ctx, rest)
	case strings.HasPrefix(cmd, ":"):
		err = c.loop.Do(ctx, func() { c.command(cmd) })
	case strings.HasPrefix(cmd, "@"):
		sym := types.ParseSymbology(strings.TrimPrefix(cmd, "@"))
		err = c.decode(ctx, service.DecodeEvent{Payload: rest, Symbology: sym})
	default:
		// The whole line is the payload; 1D codes may carry spaces.
		err = c.decode(ctx, service.DecodeEvent{Payload: line})
	}

	c.logf("console %q dur=%s", cmd, time.Since(start))
	return err
}

func (c *Console) command(cmd string) {
	switch cmd {
	case ":focus":
		c.scanner.Focus()
		c.presenter.NavigateToScanner()
	case ":blur":
		c.scanner.Blur()
		c.presenter.Printf("[scanner] paused\n")
	case ":back":
		c.scanner.CloseResult()
		c.scanner.Focus()
		c.presenter.NavigateToScanner()
	case ":dismiss":
		c.scanner.DismissNotice()
	case ":torch":
		c.torch = !c.torch
		c.presenter.Printf("[scanner] torch %s\n", onOff(c.torch))
	case ":flip":
		if c.facing == "back" {
			c.facing = "front"
		} else {
			c.facing = "back"
		}
		c.presenter.Printf("[scanner] camera %s\n", c.facing)
	case ":status":
		c.status()
	default:
		c.presenter.Printf("unknown command %s (try :help)\n", cmd)
	}
}

func (c *Console) status() {
	session := "none"
	if s := c.scanner.Session(); s != nil {
		session = s.ID()
		if s.Accepted() {
			session += " (accepted)"
		}
	}
	notice := "none"
	if fb := c.scanner.Fallback(); fb != nil {
		notice = fb.State().String()
	}
	c.presenter.Printf("session: %s\nnotice: %s\ntorch: %s  camera: %s\n", session, notice, onOff(c.torch), c.facing)
}

func (c *Console) frames(ctx context.Context, rest string) error {
	nStr, payload, _ := strings.Cut(strings.TrimSpace(rest), " ")
	n, err := strconv.Atoi(nStr)
	if err != nil || n <= 0 || payload == "" {
		c.presenter.Printf("usage: :frames <n> <payload>\n")
		return nil
	}
	for i := 0; i < n; i++ {
		if err := c.decode(ctx, service.DecodeEvent{Payload: payload}); err != nil {
			return err
		}
	}
	return nil
}

// decode delivers one raw decode callback.  The session is captured when the
// event is emitted, so events queued across a blur are discarded.
func (c *Console) decode(ctx context.Context, ev service.DecodeEvent) error {
	ev.Session = c.scanner.Session()

	var fault error
	err := c.loop.Do(ctx, func() {
		res, accepted, err := c.scanner.HandleDecode(ctx, ev)
		if err != nil {
			fault = err
			return
		}
		if !accepted {
			c.logf("decode suppressed payload=%q", ev.Payload)
			return
		}
		c.logf("decode accepted payload=%q outcome=%s", ev.Payload, res.Outcome)
	})
	if err != nil {
		return err
	}
	return fault
}

func (c *Console) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
