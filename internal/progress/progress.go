package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kop-cichra/slsbench/internal/record"
)

// Bar draws a single-line progress bar for a batch of solver runs, counting
// outcomes as they arrive.
type Bar struct {
	writer    io.Writer
	total     int
	success   int
	failure   int
	parseErr  int
	startTime time.Time
	isCI      bool
	mu        sync.Mutex
}

// Config holds configuration for the progress bar
type Config struct {
	Writer io.Writer
	Total  int
	// IsCI prints one line per run instead of redrawing the bar.
	IsCI bool
}

// NewBar creates a progress bar for cfg.Total runs
func NewBar(cfg Config) *Bar {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	if !cfg.IsCI {
		cfg.IsCI = os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"
	}
	return &Bar{
		writer:    cfg.Writer,
		total:     cfg.Total,
		startTime: time.Now(),
		isCI:      cfg.IsCI,
	}
}

// Observe counts one finished run and redraws.
func (b *Bar) Observe(r record.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch r.Outcome {
	case record.Success:
		b.success++
	case record.Failure:
		b.failure++
	default:
		b.parseErr++
	}

	if b.isCI {
		fmt.Fprintf(b.writer, "run %d/%d %s\n", r.Run+1, b.total, r.Outcome)
		return
	}
	b.render()
}

func (b *Bar) done() int {
	return b.success + b.failure + b.parseErr
}

// render draws the progress bar
func (b *Bar) render() {
	progress := 1.0
	if b.total > 0 {
		progress = float64(b.done()) / float64(b.total)
	}
	barWidth := 30
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Fprintf(b.writer, "\r[%s] %.0f%% | %d/%d | S %d | F %d | E %d | %s",
		bar,
		progress*100,
		b.done(),
		b.total,
		b.success,
		b.failure,
		b.parseErr,
		formatDuration(time.Since(b.startTime)),
	)
}

// Finish terminates the bar line.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isCI {
		fmt.Fprintln(b.writer)
	}
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
