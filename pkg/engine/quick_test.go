package engine

import (
	"context"
	"testing"
)

func TestQuickAddCreatesBlocksAndEvent(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)

	blocks, ev, err := e.QuickAdd(ctx, "2026-03-02", "19.5-20.5 수영")
	if err != nil {
		t.Fatalf("quick add: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected exactly 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Slot != 39 || blocks[1].Slot != 40 {
		t.Fatalf("unexpected slots: %d, %d", blocks[0].Slot, blocks[1].Slot)
	}
	for _, b := range blocks {
		if b.Note != "수영" {
			t.Fatalf("every slot carries the same note, got %q", b.Note)
		}
	}
	if ev.Time != "19:30~20:30" || ev.Title != "수영" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if events := e.DayEvents("2026-03-02"); len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
}

func TestQuickAddWholeHours(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)

	blocks, _, err := e.QuickAdd(ctx, "2026-03-02", "10-11 점심")
	if err != nil {
		t.Fatalf("quick add: %v", err)
	}
	if len(blocks) != 2 || blocks[0].Slot != 20 || blocks[1].Slot != 21 {
		t.Fatalf("expected slots 20,21, got %+v", blocks)
	}
}

func TestQuickAddRejectedCreatesNothing(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)

	if _, _, err := e.QuickAdd(ctx, "2026-03-02", "11-10 foo"); err == nil {
		t.Fatalf("expected rejection for inverted range")
	}
	if blocks := e.DayBlocks("2026-03-02"); len(blocks) != 0 {
		t.Fatalf("rejected input must not create blocks: %+v", blocks)
	}
	if events := e.DayEvents("2026-03-02"); len(events) != 0 {
		t.Fatalf("rejected input must not create events: %+v", events)
	}
}

func TestDeleteEventClearsCoveredSlots(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)

	if _, _, err := e.QuickAdd(ctx, "2026-03-02", "10-11 점심"); err != nil {
		t.Fatalf("quick add: %v", err)
	}
	// An unrelated slot that must survive untouched.
	if _, err := e.SetTimeBlock(ctx, "2026-03-02", 22, "", "after lunch"); err != nil {
		t.Fatalf("set block: %v", err)
	}

	events := e.DayEvents("2026-03-02")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if err := e.DeleteEvent(ctx, events[0].ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}

	// Rows at 20 and 21 remain but are cleared; 22 is untouched.
	blocks := e.DayBlocks("2026-03-02")
	if len(blocks) != 3 {
		t.Fatalf("rows must not be deleted, got %d", len(blocks))
	}
	for _, b := range blocks {
		switch b.Slot {
		case 20, 21:
			if b.Note != "" || b.CategoryID != "" {
				t.Fatalf("slot %d not cleared: %+v", b.Slot, b)
			}
		case 22:
			if b.Note != "after lunch" {
				t.Fatalf("unrelated slot mutated: %+v", b)
			}
		default:
			t.Fatalf("unexpected slot %d", b.Slot)
		}
	}
	if events := e.DayEvents("2026-03-02"); len(events) != 0 {
		t.Fatalf("event not deleted")
	}
}

func TestDeleteEventFreeTextTimeSkipsClearing(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)

	if _, err := e.SetTimeBlock(ctx, "2026-03-02", 40, "", "dinner"); err != nil {
		t.Fatalf("set block: %v", err)
	}
	ev, err := e.AddEvent(ctx, "2026-03-02", "저녁 약속", "저녁 늦게", "")
	if err != nil {
		t.Fatalf("add event: %v", err)
	}
	if err := e.DeleteEvent(ctx, ev.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	if got := e.BlockAt("2026-03-02", 40); got.Note != "dinner" {
		t.Fatalf("free-text event delete must not touch blocks: %+v", got)
	}
	if events := e.DayEvents("2026-03-02"); len(events) != 0 {
		t.Fatalf("event not deleted")
	}
}
