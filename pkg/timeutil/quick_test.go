package timeutil

import "testing"

func TestParseQuickHalfHours(t *testing.T) {
	q, err := ParseQuick("19.5-20.5 수영")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.StartSlot != 39 || q.EndSlot != 41 {
		t.Fatalf("expected slots 39..41, got %d..%d", q.StartSlot, q.EndSlot)
	}
	if q.Title != "수영" {
		t.Fatalf("unexpected title %q", q.Title)
	}
	if q.Range() != "19:30~20:30" {
		t.Fatalf("unexpected range %q", q.Range())
	}
}

func TestParseQuickWholeHours(t *testing.T) {
	q, err := ParseQuick("10-11 점심")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.StartSlot != 20 || q.EndSlot != 22 {
		t.Fatalf("expected slots 20..22, got %d..%d", q.StartSlot, q.EndSlot)
	}
	if q.EndSlot-q.StartSlot != 2 {
		t.Fatalf("expected a two-slot range")
	}
}

func TestParseQuickTitleWithSpaces(t *testing.T) {
	q, err := ParseQuick("9-10 standup with team")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Title != "standup with team" {
		t.Fatalf("unexpected title %q", q.Title)
	}
}

func TestParseQuickRejects(t *testing.T) {
	for _, input := range []string{
		"11-10 foo",   // start >= end
		"10-10 foo",   // zero width
		"-1-3 nope",   // below range
		"23-25 nope",  // above range
		"10.25-11 x",  // finer than half hour
		"10-11",       // no title
		"lunch",       // no range
		"",            // empty
	} {
		if _, err := ParseQuick(input); err == nil {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}

func TestWeekStartMonday(t *testing.T) {
	for date, want := range map[string]string{
		"2026-03-02": "2026-03-02", // a Monday
		"2026-03-04": "2026-03-02",
		"2026-03-08": "2026-03-02", // Sunday belongs to the prior Monday
	} {
		got, err := WeekStart(date)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("WeekStart(%s) = %s, want %s", date, got, want)
		}
	}
}

func TestParseRangeRoundTrip(t *testing.T) {
	start, end, ok := ParseRange("10:00~11:00")
	if !ok || start != 20 || end != 22 {
		t.Fatalf("expected 20..22, got %d..%d ok=%v", start, end, ok)
	}
	if FormatRange(start, end) != "10:00~11:00" {
		t.Fatalf("round trip failed: %s", FormatRange(start, end))
	}
	if _, _, ok := ParseRange("저녁 늦게"); ok {
		t.Fatalf("free text should not parse as a range")
	}
}
