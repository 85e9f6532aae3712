package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/kop-cichra/slsbench/internal/record"
)

func TestBarCountsOutcomes(t *testing.T) {
	buf := &bytes.Buffer{}
	bar := NewBar(Config{Writer: buf, Total: 3})
	bar.isCI = false

	bar.Observe(record.Record{Run: 0, Outcome: record.Success})
	bar.Observe(record.Record{Run: 1, Outcome: record.Failure})
	bar.Observe(record.Record{Run: 2, Outcome: record.ParseError})
	bar.Finish()

	out := buf.String()
	if !strings.Contains(out, "3/3 | S 1 | F 1 | E 1") {
		t.Errorf("unexpected bar output: %q", out)
	}
	if !strings.Contains(out, "100%") {
		t.Errorf("expected 100%% in output: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("Finish should end the line")
	}
}

func TestBarCIMode(t *testing.T) {
	buf := &bytes.Buffer{}
	bar := NewBar(Config{Writer: buf, Total: 2, IsCI: true})

	bar.Observe(record.Record{Run: 0, Outcome: record.Success})
	bar.Observe(record.Record{Run: 1, Outcome: record.Failure})
	bar.Finish()

	want := "run 1/2 success\nrun 2/2 failure\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h2m3s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
