// Package timeutil provides 30-minute slot math and date helpers for the
// planner. A day holds slots 0–47; slot 0 is 00:00, slot 47 is 23:30.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	// LayoutISO is the canonical date form used across collections.
	LayoutISO = "2006-01-02"

	// SlotsPerDay is the number of 30-minute slots in one day.
	SlotsPerDay = 48
)

// Today returns the current local date in canonical form.
func Today() string {
	return time.Now().Format(LayoutISO)
}

// ParseDate validates a canonical date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(LayoutISO, strings.TrimSpace(s))
}

// WeekStart returns the Monday of the week containing date, in canonical
// form. Weekly goals are scoped by this value.
func WeekStart(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	offset := (int(t.Weekday()) + 6) % 7 // Monday == 0
	return t.AddDate(0, 0, -offset).Format(LayoutISO), nil
}

// AddDays shifts a canonical date by n days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(LayoutISO), nil
}

// FormatSlot renders a slot index as "HH:MM". Slot 48 renders as "24:00" so
// ranges ending at midnight stay readable.
func FormatSlot(slot int) string {
	return fmt.Sprintf("%02d:%02d", slot/2, (slot%2)*30)
}

// FormatRange renders a [start, end) slot range as "HH:MM~HH:MM".
func FormatRange(start, end int) string {
	return fmt.Sprintf("%s~%s", FormatSlot(start), FormatSlot(end))
}

// ParseRange parses "HH:MM~HH:MM" back into a [start, end) slot range. It
// reports ok=false for free-text times; callers treat those as unparseable
// rather than as errors.
func ParseRange(s string) (start, end int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), "~")
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, ok = parseClock(parts[0])
	if !ok {
		return 0, 0, false
	}
	end, ok = parseClock(parts[1])
	if !ok || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

func parseClock(s string) (int, bool) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 24 || (m != 0 && m != 30) || (h == 24 && m != 0) {
		return 0, false
	}
	return h*2 + m/30, true
}
