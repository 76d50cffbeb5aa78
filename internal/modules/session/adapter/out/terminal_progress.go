package out

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"

	sessionout "oryx/internal/modules/session/port/out"
	"oryx/internal/platform/clock"
	"oryx/internal/ui/theme"
)

const barWidth = 40

// TerminalProgress draws a single-line bar followed by the elapsed time and
// redraws it in place on every tick.
type TerminalProgress struct {
	w       io.Writer
	clock   clock.Clock
	bar     progress.Model
	title   string
	total   int
	started time.Time
}

func NewTerminalProgress(w io.Writer, clk clock.Clock) sessionout.Progress {
	bar := progress.New(
		progress.WithGradient(string(theme.Sapphire), string(theme.Lavender)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	return &TerminalProgress{w: w, clock: clk, bar: bar}
}

func (p *TerminalProgress) Start(title string, total int) {
	p.title = title
	p.total = total
	p.started = p.clock.Now()
	_, _ = fmt.Fprintf(p.w, " Focusing on: %s\n", theme.Focus.Render(title))
	p.render(0)
}

func (p *TerminalProgress) Advance(done int) {
	p.render(done)
}

func (p *TerminalProgress) Finish() {
	p.render(p.total)
	_, _ = fmt.Fprintln(p.w)
	_, _ = fmt.Fprintln(p.w, "Session ended, take a break.")
}

func (p *TerminalProgress) Abort() {
	_, _ = fmt.Fprintln(p.w)
	_, _ = fmt.Fprintln(p.w, theme.Muted.Render("Session interrupted, nothing was logged."))
}

func (p *TerminalProgress) render(done int) {
	ratio := 0.0
	if p.total > 0 {
		ratio = float64(done) / float64(p.total)
	}
	_, _ = fmt.Fprintf(p.w, "\r %s %s", p.bar.ViewAs(ratio), FormatElapsed(p.clock.Now().Sub(p.started)))
}

// FormatElapsed renders d as HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}
