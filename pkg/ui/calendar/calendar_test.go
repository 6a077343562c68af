package calendar

import (
	"strings"
	"testing"
	"time"
)

func TestRenderMondayFirstOffset(t *testing.T) {
	// 2026-03-01 is a Sunday, so day 1 lands in the last column.
	month := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	out := Render(month, nil, Options{ShowHeader: true})

	lines := strings.Split(out, "\n")
	if len(lines) < 2 {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], "Mo") {
		t.Fatalf("header must start with Monday, got %q", lines[0])
	}
	first := lines[1]
	if !strings.HasSuffix(first, "①") {
		t.Fatalf("day 1 should close the first row, got %q", first)
	}
}

func TestRenderRowCount(t *testing.T) {
	// February 2027 starts on a Monday and has exactly 28 days: four rows.
	month := time.Date(2027, time.February, 1, 0, 0, 0, 0, time.UTC)
	out := Render(month, nil, Options{})
	if got := len(strings.Split(out, "\n")); got != 4 {
		t.Fatalf("expected 4 rows, got %d:\n%s", got, out)
	}
}

func TestRenderIgnoresOutOfRangeDays(t *testing.T) {
	month := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	days := []Day{{Day: 0, HasPlan: true}, {Day: 99, HasPlan: true}}
	if got, want := Render(month, days, Options{}), Render(month, nil, Options{}); got != want {
		t.Fatalf("out-of-range metadata must not change the render")
	}
}

func TestRenderZeroMonth(t *testing.T) {
	if out := Render(time.Time{}, nil, Options{}); out != "" {
		t.Fatalf("zero month should render nothing, got %q", out)
	}
}
