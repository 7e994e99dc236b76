package service

import (
	"time"

	"github.com/BrandonDHaskell/tagscan/internal/tagscan/types"
)

// Scheduler runs fn once after d on the host's event thread.  The returned
// cancel func reports whether the callback was stopped before it was
// dispatched.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) func() bool
}

// Presenter is the outbound side of the presentation layer.
type Presenter interface {
	NavigateToDetail(rec types.AssetRecord)
	NavigateToScanner()
	ShowNotFoundNotice(rawCode string)
	HideNotFoundNotice()
}
