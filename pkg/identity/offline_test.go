package identity

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/haru/pkg/store"
	"tableflip.dev/haru/pkg/theme"
)

func offlineManager(t *testing.T) (*Manager, store.Persistence) {
	t.Helper()
	local, err := store.Load(store.StaticConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return NewManager(local, nil, theme.Lookup(theme.Default)), local
}

func TestOfflineRegisterAndLogin(t *testing.T) {
	m, local := offlineManager(t)
	ctx := context.Background()

	u, err := m.Register(ctx, "Alice")
	if err != nil {
		t.Fatalf("register without a backend: %v", err)
	}
	if u.ID == "" || u.Color == "" {
		t.Fatalf("incomplete identity: %+v", u)
	}

	// A second manager over the same store stands in for a restart.
	m2 := NewManager(local, nil, theme.Lookup(theme.Default))
	got, err := m2.Login(ctx, "ALICE")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("login restored wrong identity: %s != %s", got.ID, u.ID)
	}

	if _, err := m2.Login(ctx, "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestOfflineRoomOpsRejected(t *testing.T) {
	m, _ := offlineManager(t)
	ctx := context.Background()
	if _, err := m.Register(ctx, "Alice"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := m.CreateRoom(ctx); !errors.Is(err, ErrOffline) {
		t.Fatalf("expected offline error, got %v", err)
	}
	if _, err := m.JoinRoom(ctx, "KWX3RD"); !errors.Is(err, ErrOffline) {
		t.Fatalf("expected offline error, got %v", err)
	}
	// Leaving with no room joined stays a no-op.
	if err := m.LeaveRoom(ctx); err != nil {
		t.Fatalf("leave: %v", err)
	}
}
