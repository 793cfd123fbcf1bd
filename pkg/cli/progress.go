package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ProgressReporter reports progress over a known number of items.
type ProgressReporter interface {
	// Update records that done of total items are complete; item names the
	// one just finished.
	Update(done, total int, item string)
	Finish()
}

// BarProgress renders a single-line bar that is redrawn in place. It is
// meant for a terminal on stderr.
type BarProgress struct {
	mu      sync.Mutex
	writer  io.Writer
	label   string
	total   int
	current int
}

// NewProgressReporter creates a bar that writes to w. A nil w gives a
// reporter that prints nothing.
func NewProgressReporter(w io.Writer, label string) ProgressReporter {
	if w == nil {
		return NopProgress{}
	}
	return &BarProgress{writer: w, label: label}
}

// Update redraws the bar.
func (p *BarProgress) Update(done, total int, item string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if total <= 0 {
		return
	}
	if done > total {
		done = total
	}
	p.current, p.total = done, total
	p.render(item)
}

// Finish ends the line if anything was drawn.
func (p *BarProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total == 0 {
		return
	}
	p.current = p.total
	p.render("")
	fmt.Fprintln(p.writer)
}

const barWidth = 30

func (p *BarProgress) render(item string) {
	filled := barWidth * p.current / p.total
	bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)

	// Padding clears what a longer previous item left behind
	fmt.Fprintf(p.writer, "\r%s [%s] %d/%d %-40.40s", p.label, bar, p.current, p.total, item)
}

// NopProgress discards all progress updates.
type NopProgress struct{}

func (NopProgress) Update(int, int, string) {}
func (NopProgress) Finish()                 {}
