package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// QuickEntry is a parsed "start-end title" schedule instruction. Slots are a
// half-open [StartSlot, EndSlot) range.
type QuickEntry struct {
	StartSlot int
	EndSlot   int
	Title     string
}

// Range renders the entry's slot range as "HH:MM~HH:MM".
func (q QuickEntry) Range() string {
	return FormatRange(q.StartSlot, q.EndSlot)
}

// ParseQuick parses a free-text schedule instruction like "19.5-20.5 수영" or
// "10-11 점심". Hours are fractional with ".5" meaning the half hour. The
// bounds must satisfy 0 <= start < end <= 24; anything else is rejected
// before any data is created.
func ParseQuick(input string) (QuickEntry, error) {
	trimmed := strings.TrimSpace(input)
	span, title, found := strings.Cut(trimmed, " ")
	if !found || strings.TrimSpace(title) == "" {
		return QuickEntry{}, fmt.Errorf("quick input %q: want \"start-end title\"", input)
	}
	from, to, found := strings.Cut(span, "-")
	if !found {
		return QuickEntry{}, fmt.Errorf("quick input %q: want \"start-end title\"", input)
	}
	start, err := parseHour(from)
	if err != nil {
		return QuickEntry{}, fmt.Errorf("quick input %q: %w", input, err)
	}
	end, err := parseHour(to)
	if err != nil {
		return QuickEntry{}, fmt.Errorf("quick input %q: %w", input, err)
	}
	if start >= end {
		return QuickEntry{}, fmt.Errorf("quick input %q: start must be before end", input)
	}
	return QuickEntry{
		StartSlot: start,
		EndSlot:   end,
		Title:     strings.TrimSpace(title),
	}, nil
}

// parseHour converts a fractional hour ("19", "19.5") to a slot index and
// rejects values outside [0, 24] or finer than 30 minutes.
func parseHour(s string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("bad hour %q", s)
	}
	if v < 0 || v > 24 {
		return 0, fmt.Errorf("hour %q out of range", s)
	}
	slot := v * 2
	if slot != float64(int(slot)) {
		return 0, fmt.Errorf("hour %q not on a half-hour boundary", s)
	}
	return int(slot), nil
}
