package identity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tableflip.dev/haru/pkg/remote"
	"tableflip.dev/haru/pkg/store"
	"tableflip.dev/haru/pkg/theme"
)

func testManager(t *testing.T) (*Manager, store.Persistence, *remote.Memory) {
	t.Helper()
	local, err := store.Load(store.StaticConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	rem := remote.NewMemory()
	return NewManager(local, rem, theme.Lookup(theme.Default)), local, rem
}

func TestRegisterAndLoginCaseInsensitive(t *testing.T) {
	m, _, _ := testManager(t)
	ctx := context.Background()

	u, err := m.Register(ctx, "Alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == "" || u.Color == "" || u.NameLower != "alice" {
		t.Fatalf("incomplete identity: %+v", u)
	}

	if _, err := m.Register(ctx, "alice"); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected duplicate-name error, got %v", err)
	}
	if _, err := m.Register(ctx, "  ALICE  "); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected duplicate-name error for padded name, got %v", err)
	}

	got, err := m.Login(ctx, "ALICE")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("login restored wrong identity: %s != %s", got.ID, u.ID)
	}

	if _, err := m.Login(ctx, "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestLogoutKeepsRoomCode(t *testing.T) {
	m, local, _ := testManager(t)
	ctx := context.Background()

	if _, err := m.Register(ctx, "Alice"); err != nil {
		t.Fatalf("register: %v", err)
	}
	code, err := m.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	m.Logout()
	if _, ok := m.Current(); ok {
		t.Fatalf("identity should be cleared")
	}
	if m.RoomCode() != code {
		t.Fatalf("room code must survive logout")
	}
	if local.RoomCode() != code {
		t.Fatalf("persisted room code must survive logout")
	}
}

func TestRegisterClearsRoomCode(t *testing.T) {
	m, _, _ := testManager(t)
	ctx := context.Background()
	if _, err := m.Register(ctx, "Alice"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := m.CreateRoom(ctx); err != nil {
		t.Fatalf("create room: %v", err)
	}
	if _, err := m.Register(ctx, "Bob"); err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if m.RoomCode() != "" {
		t.Fatalf("a fresh identity starts unaffiliated")
	}
}

func TestRegisterRetiresPreviousMembership(t *testing.T) {
	m, _, _ := testManager(t)
	ctx := context.Background()
	if _, err := m.Register(ctx, "Alice"); err != nil {
		t.Fatalf("register: %v", err)
	}
	code, err := m.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	// Switching identities must not leave Alice behind as a ghost member.
	if _, err := m.Register(ctx, "Bob"); err != nil {
		t.Fatalf("register bob: %v", err)
	}
	members, err := m.Members(ctx, code)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("previous identity still a member: %v", members)
	}
}

func TestRoomCodeShape(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := NewRoomCode()
		if len(code) != 6 {
			t.Fatalf("bad length: %q", code)
		}
		for _, c := range []string{"0", "O", "1", "I"} {
			if strings.Contains(code, c) {
				t.Fatalf("ambiguous character %s in %q", c, code)
			}
		}
	}
}

func TestJoinRoomSoftFailure(t *testing.T) {
	m, _, _ := testManager(t)
	ctx := context.Background()
	if _, err := m.Register(ctx, "Alice"); err != nil {
		t.Fatalf("register: %v", err)
	}

	joined, err := m.JoinRoom(ctx, "ZZZZ99")
	if err != nil {
		t.Fatalf("unexpected hard failure: %v", err)
	}
	if joined {
		t.Fatalf("joining an unknown room must fail softly")
	}
	if m.RoomCode() != "" {
		t.Fatalf("failed join must not persist a code")
	}
}

func TestJoinAndLeaveRoom(t *testing.T) {
	alice, _, rem := testManager(t)
	ctx := context.Background()
	if _, err := alice.Register(ctx, "Alice"); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	code, err := alice.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	// Bob on a second device, same shared remote.
	bobLocal, err := store.Load(store.StaticConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	bob := NewManager(bobLocal, rem, theme.Lookup("ocean"))
	if _, err := bob.Register(ctx, "Bob"); err != nil {
		t.Fatalf("register bob: %v", err)
	}
	joined, err := bob.JoinRoom(ctx, " "+strings.ToLower(code)+" ")
	if err != nil || !joined {
		t.Fatalf("join failed: joined=%v err=%v", joined, err)
	}

	members, err := alice.Members(ctx, code)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %v", members)
	}

	if err := bob.LeaveRoom(ctx); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if bob.RoomCode() != "" {
		t.Fatalf("leave must clear the local code")
	}
	members, _ = alice.Members(ctx, code)
	if len(members) != 1 {
		t.Fatalf("expected departure to be observed, got %v", members)
	}

	// Leaving again is a no-op.
	if err := bob.LeaveRoom(ctx); err != nil {
		t.Fatalf("second leave: %v", err)
	}
}
