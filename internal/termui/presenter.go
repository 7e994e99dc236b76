package termui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/BrandonDHaskell/tagscan/internal/tagscan/types"
)

// Presenter renders the scan flow as text.  It implements service.Presenter.
type Presenter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewPresenter(w io.Writer) *Presenter {
	return &Presenter{w: w}
}

func (p *Presenter) NavigateToDetail(rec types.AssetRecord) {
	var b strings.Builder

	fmt.Fprintf(&b, "\n== %s ==\n", orDash(rec.FullName()))
	if rec.JobTitle != "" {
		fmt.Fprintf(&b, "%s\n", rec.JobTitle)
	}
	fmt.Fprintf(&b, "ID: %s\n", orDash(rec.BadgeID))

	section(&b, "Professional Information",
		"Company", rec.Company,
		"Department", rec.Department,
		"Email", rec.Email,
	)
	section(&b, "Contact Details",
		"Phone", rec.Phone,
		"Location", rec.WorkLocation,
	)

	notes := rec.Observation
	if notes == "" {
		notes = "None"
	}
	date := ""
	if !rec.InventoryDate.IsZero() {
		date = rec.InventoryDate.Format("2006-01-02")
	}
	section(&b, "Equipment Details",
		"Asset Tag", rec.AssetTag,
		"Model", rec.ModelName,
		"Type", rec.AssetType,
		"Manufacturer", rec.Manufacturer,
		"Area", rec.Area,
		"Notes", notes,
		"Inventory Date", date,
	)
	fmt.Fprintf(&b, "\nSERVICE TAG: %s\n", rec.ServiceTag)

	p.write(b.String())
}

func (p *Presenter) NavigateToScanner() {
	p.write("\n[scanner] Scan the QR code\n")
}

func (p *Presenter) ShowNotFoundNotice(rawCode string) {
	p.write(fmt.Sprintf("\n!! Service Tag not found\n   No equipment is associated with this tag: %s\n   Redirecting...\n", rawCode))
}

func (p *Presenter) HideNotFoundNotice() {
	p.write("   (notice closed)\n")
}

// Printf writes harness output under the same lock as screen output.
func (p *Presenter) Printf(format string, args ...any) {
	p.write(fmt.Sprintf(format, args...))
}

func (p *Presenter) write(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, s)
}

// section writes a titled block of label/value pairs.
func section(b *strings.Builder, title string, pairs ...string) {
	fmt.Fprintf(b, "\n%s\n", title)
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(b, "  %-15s %s\n", pairs[i]+":", orDash(pairs[i+1]))
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
