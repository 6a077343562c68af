package engine

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/haru/pkg/identity"
	"tableflip.dev/haru/pkg/model"
	"tableflip.dev/haru/pkg/remote"
	"tableflip.dev/haru/pkg/store"
	"tableflip.dev/haru/pkg/theme"
)

func testEngine(t *testing.T, rem remote.Store) *Engine {
	t.Helper()
	local, err := store.Load(store.StaticConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	ids := identity.NewManager(local, rem, theme.Lookup(theme.Default))
	e := New(local, rem, ids)
	t.Cleanup(e.Close)
	return e
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// roomPair registers Alice and Bob on one shared remote, with Bob joined to
// Alice's room, both engines started.
func roomPair(t *testing.T, ctx context.Context) (alice, bob *Engine, code string) {
	t.Helper()
	rem := remote.NewMemory()
	alice = testEngine(t, rem)
	bob = testEngine(t, rem)

	if _, err := alice.Register(ctx, "Alice"); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if _, err := bob.Register(ctx, "Bob"); err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if err := alice.Start(ctx); err != nil {
		t.Fatalf("start alice: %v", err)
	}
	if err := bob.Start(ctx); err != nil {
		t.Fatalf("start bob: %v", err)
	}

	code, err := alice.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	joined, err := bob.JoinRoom(ctx, code)
	if err != nil || !joined {
		t.Fatalf("join room: joined=%v err=%v", joined, err)
	}
	waitFor(t, "membership to converge", func() bool {
		return len(alice.Members()) == 2 && len(bob.Members()) == 2
	})
	return alice, bob, code
}

func TestOptimisticReadConsistency(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	alice, _, _ := roomPair(t, ctx)

	// The just-written content must be readable before any remote echo.
	b, err := alice.SetTimeBlock(ctx, "2026-03-02", 20, "meal", "점심")
	if err != nil {
		t.Fatalf("set block: %v", err)
	}
	got := alice.BlockAt("2026-03-02", 20)
	if got.Note != "점심" || got.CategoryID != "meal" || got.ID != b.ID {
		t.Fatalf("optimistic read mismatch: %+v", got)
	}

	// And the echo must reconcile without duplicating.
	waitFor(t, "echo to settle", func() bool {
		blocks := alice.DayBlocks("2026-03-02")
		return len(blocks) == 1 && blocks[0].ID == b.ID && blocks[0].Note == "점심"
	})
}

func TestOwnerStampedAtomically(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	alice, _, _ := roomPair(t, ctx)
	u, _ := alice.Identity()

	b, err := alice.SetTimeBlock(ctx, "2026-03-02", 10, "", "swim")
	if err != nil {
		t.Fatalf("set block: %v", err)
	}
	if b.OwnerID != u.ID || b.OwnerName != u.Name || b.OwnerColor != u.Color {
		t.Fatalf("owner stamp incomplete: %+v", b.Owner)
	}
}

func TestSharedMergeAndPartition(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	alice, bob, _ := roomPair(t, ctx)
	aliceID, _ := alice.Identity()
	bobID, _ := bob.Identity()

	if _, err := alice.SetTimeBlock(ctx, "2026-03-02", 20, "", "alice block"); err != nil {
		t.Fatalf("alice set: %v", err)
	}
	if _, err := bob.SetTimeBlock(ctx, "2026-03-02", 20, "", "bob block"); err != nil {
		t.Fatalf("bob set: %v", err)
	}
	if _, err := bob.AddTodo(ctx, "2026-03-02", "bob private"); err != nil {
		t.Fatalf("bob todo: %v", err)
	}

	// Both members' blocks merge into one slot; owners stay distinct.
	waitFor(t, "blocks to merge", func() bool {
		return len(alice.DayBlocks("2026-03-02")) == 2 && len(bob.DayBlocks("2026-03-02")) == 2
	})
	for _, b := range alice.DayBlocks("2026-03-02") {
		if b.OwnerID != aliceID.ID && b.OwnerID != bobID.ID {
			t.Fatalf("unexpected owner %q", b.OwnerID)
		}
	}

	// Foreign contributions never include records owned by the local user.
	own := 0
	for _, b := range alice.DayBlocks("2026-03-02") {
		if b.OwnerID == aliceID.ID {
			own++
		}
	}
	if own != 1 {
		t.Fatalf("partition violated: %d own blocks", own)
	}

	// Personal types never cross: Bob's todo stays invisible to Alice.
	time.Sleep(50 * time.Millisecond)
	if todos := alice.DayTodos("2026-03-02"); len(todos) != 0 {
		t.Fatalf("todos leaked across members: %+v", todos)
	}
	waitFor(t, "bob's own todo", func() bool {
		return len(bob.DayTodos("2026-03-02")) == 1
	})
}

func TestDepartedMemberPurged(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	alice, bob, _ := roomPair(t, ctx)

	if _, err := bob.SetTimeBlock(ctx, "2026-03-02", 30, "", "bob block"); err != nil {
		t.Fatalf("bob set: %v", err)
	}
	waitFor(t, "bob's block to reach alice", func() bool {
		return len(alice.DayBlocks("2026-03-02")) == 1
	})

	if err := bob.LeaveRoom(ctx); err != nil {
		t.Fatalf("leave: %v", err)
	}
	waitFor(t, "departure to purge bob's records", func() bool {
		return len(alice.DayBlocks("2026-03-02")) == 0
	})
	waitFor(t, "membership to shrink", func() bool {
		return len(alice.Members()) == 1
	})

	// Bob keeps his own data after leaving.
	if len(bob.DayBlocks("2026-03-02")) != 1 {
		t.Fatalf("bob lost his own records on departure")
	}
}

func TestLeaveRoomTeardownIdempotent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, bob, _ := roomPair(t, ctx)

	if err := bob.LeaveRoom(ctx); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if err := bob.LeaveRoom(ctx); err != nil {
		t.Fatalf("second leave: %v", err)
	}
	bob.Logout()
	bob.Logout()
}

func TestUnaffiliatedLocalOnly(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)
	if err := e.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := e.SetTimeBlock(ctx, "2026-03-02", 20, "", "solo"); err != nil {
		t.Fatalf("set block: %v", err)
	}
	if got := e.BlockAt("2026-03-02", 20); got.Note != "solo" {
		t.Fatalf("local-only write not readable: %+v", got)
	}
	if len(e.Members()) != 0 {
		t.Fatalf("unaffiliated engine has no members")
	}
}

func TestBlockAtSynthesizesEmptySlot(t *testing.T) {
	e := testEngine(t, nil)
	got := e.BlockAt("2026-03-02", 7)
	if !got.Empty() || got.Slot != 7 || got.Date != "2026-03-02" {
		t.Fatalf("expected synthesized empty slot, got %+v", got)
	}
}

func TestOrderAssignmentMonotonic(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)

	var last int
	for i, text := range []string{"one", "two", "three", "four"} {
		todo, err := e.AddTodo(ctx, "2026-03-02", text)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if i > 0 && todo.Order <= last {
			t.Fatalf("order not strictly increasing: %d then %d", last, todo.Order)
		}
		last = todo.Order
	}

	g1, err := e.AddGoal(ctx, "2026-03-04", "goal one")
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}
	g2, err := e.AddGoal(ctx, "2026-03-06", "goal two")
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}
	if g1.WeekStart != "2026-03-02" || g2.WeekStart != "2026-03-02" {
		t.Fatalf("week normalization failed: %s %s", g1.WeekStart, g2.WeekStart)
	}
	if g2.Order <= g1.Order {
		t.Fatalf("goal order not increasing: %d then %d", g1.Order, g2.Order)
	}
}

func TestPlanGoalCopiesWithoutLink(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)

	goal, err := e.AddGoal(ctx, "2026-03-02", "run 10k")
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}
	todo, err := e.PlanGoal(ctx, goal.ID, "2026-03-04")
	if err != nil {
		t.Fatalf("plan goal: %v", err)
	}
	if todo.ID == goal.ID {
		t.Fatalf("copy must get a fresh id")
	}
	if todo.Text != goal.Text || todo.Date != "2026-03-04" {
		t.Fatalf("unexpected copy: %+v", todo)
	}

	// Completing the copy leaves the goal untouched: copy, not sync.
	if _, err := e.ToggleTodo(ctx, todo.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	goals, err := e.WeekGoals("2026-03-02")
	if err != nil {
		t.Fatalf("week goals: %v", err)
	}
	if len(goals) != 1 || goals[0].Completed {
		t.Fatalf("goal mutated by its copy: %+v", goals)
	}
}

func TestDeleteDrainsBeforeRestart(t *testing.T) {
	ctx := context.Background()
	rem := remote.NewMemory()
	dir := t.TempDir()

	open := func() *Engine {
		local, err := store.Load(store.StaticConfig{Path: dir})
		if err != nil {
			t.Fatalf("load store: %v", err)
		}
		ids := identity.NewManager(local, rem, theme.Lookup(theme.Default))
		return New(local, rem, ids)
	}

	e := open()
	u, err := e.Register(ctx, "Alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := e.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	todo, err := e.AddTodo(ctx, "2026-03-02", "pay rent")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	path := remote.UserDataPath(u.ID, model.Todos)
	waitFor(t, "todo to land remotely", func() bool {
		docs, err := rem.Query(ctx, path, "id", todo.ID)
		return err == nil && len(docs) == 1
	})

	// Delete and exit immediately, the one-shot CLI pattern. Close must not
	// return until the remote delete has landed.
	if err := e.DeleteTodo(ctx, todo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	e.Close()
	if docs, err := rem.Query(ctx, path, "id", todo.ID); err != nil || len(docs) != 0 {
		t.Fatalf("remote record survived close: %+v err=%v", docs, err)
	}

	// The next run over the same local store must not see the todo echo back.
	e2 := open()
	defer e2.Close()
	if err := e2.Start(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if todos := e2.DayTodos("2026-03-02"); len(todos) != 0 {
		t.Fatalf("deleted todo resurrected after restart: %+v", todos)
	}
}

func TestWeekGridSpansMondayToSunday(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, nil)

	// Wednesday and Sunday of the week starting Monday 2026-03-02.
	if _, err := e.SetTimeBlock(ctx, "2026-03-04", 20, "", "mid"); err != nil {
		t.Fatalf("set block: %v", err)
	}
	if _, err := e.SetTimeBlock(ctx, "2026-03-08", 40, "", "end"); err != nil {
		t.Fatalf("set block: %v", err)
	}

	weekStart, grid, err := e.WeekGrid("2026-03-05")
	if err != nil {
		t.Fatalf("week grid: %v", err)
	}
	if weekStart != "2026-03-02" {
		t.Fatalf("wrong week start: %s", weekStart)
	}
	if len(grid[2]) != 1 || grid[2][0].Note != "mid" {
		t.Fatalf("wednesday missing: %+v", grid[2])
	}
	if len(grid[6]) != 1 || grid[6][0].Note != "end" {
		t.Fatalf("sunday missing: %+v", grid[6])
	}
	for _, i := range []int{0, 1, 3, 4, 5} {
		if len(grid[i]) != 0 {
			t.Fatalf("unexpected blocks on day %d: %+v", i, grid[i])
		}
	}
}
