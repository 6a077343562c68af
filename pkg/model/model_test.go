package model

import "testing"

func TestTodosOnStableOrder(t *testing.T) {
	todos := []Todo{
		{ID: "b", Date: "2026-03-02", Order: 1},
		{ID: "a", Date: "2026-03-02", Order: 1},
		{ID: "c", Date: "2026-03-02", Order: 0},
		{ID: "d", Date: "2026-03-03", Order: 0},
	}
	got := TodosOn(todos, "2026-03-02")
	if len(got) != 3 {
		t.Fatalf("expected 3 todos, got %d", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "a" || got[2].ID != "b" {
		t.Fatalf("unexpected order: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestNextOrderIncreasesAtTail(t *testing.T) {
	orders := []int{}
	for i := 0; i < 5; i++ {
		next := NextOrder(orders)
		if len(orders) > 0 && next <= orders[len(orders)-1] {
			t.Fatalf("order %d not strictly increasing over %v", next, orders)
		}
		orders = append(orders, next)
	}
	if NextOrder([]int{3, 7, 2}) != 8 {
		t.Fatalf("expected tail after max, got %d", NextOrder([]int{3, 7, 2}))
	}
}

func TestTimeBlockEmpty(t *testing.T) {
	if !(TimeBlock{Date: "2026-03-02", Slot: 20}).Empty() {
		t.Fatalf("blank block should be empty")
	}
	if (TimeBlock{Note: "swim"}).Empty() {
		t.Fatalf("block with note should not be empty")
	}
	if (TimeBlock{CategoryID: "work"}).Empty() {
		t.Fatalf("block with category should not be empty")
	}
}

func TestStampSetsAllOwnerFields(t *testing.T) {
	u := User{ID: "u1", Name: "Mina", Color: "#aabbcc"}
	o := Stamp(u)
	if o.OwnerID != "u1" || o.OwnerName != "Mina" || o.OwnerColor != "#aabbcc" {
		t.Fatalf("owner stamp incomplete: %+v", o)
	}
}

func TestNormalizeName(t *testing.T) {
	if NormalizeName("  Alice ") != "alice" {
		t.Fatalf("expected normalized alice, got %q", NormalizeName("  Alice "))
	}
}
