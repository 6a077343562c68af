// Package identity establishes the durable per-device user identity and the
// optional room affiliation that scopes shared state.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"tableflip.dev/haru/pkg/model"
	"tableflip.dev/haru/pkg/remote"
	"tableflip.dev/haru/pkg/store"
	"tableflip.dev/haru/pkg/theme"
)

var (
	// ErrDuplicateName means a register call collided with an existing name.
	ErrDuplicateName = errors.New("identity: name already registered")
	// ErrNotFound means a login call named an unknown identity.
	ErrNotFound = errors.New("identity: name not found")
	// ErrNoIdentity means an operation needs a current user and none is set.
	ErrNoIdentity = errors.New("identity: not logged in")
	// ErrOffline means the operation needs a sync backend and none is
	// configured.
	ErrOffline = errors.New("identity: no sync backend configured")
)

// Manager owns the current identity and room membership. Identity survives
// restarts through the local store; the name directory and room membership
// live in the remote store.
type Manager struct {
	mu     sync.Mutex
	local  store.Persistence
	remote remote.Store
	accent theme.Theme

	user *model.User
	room string
}

// NewManager restores any persisted identity and room code from the local
// store.
func NewManager(local store.Persistence, rem remote.Store, accent theme.Theme) *Manager {
	m := &Manager{local: local, remote: rem, accent: accent}
	if u, ok := local.Identity(); ok {
		m.user = &u
	}
	m.room = local.RoomCode()
	return m
}

// Current returns the logged-in user, if any.
func (m *Manager) Current() (model.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return model.User{}, false
	}
	return *m.user, true
}

// RoomCode returns the joined room code, or "" when unaffiliated.
func (m *Manager) RoomCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.room
}

// Register creates a fresh identity under name. The normalized name must be
// unused in the directory. A fresh identity starts unaffiliated, so any
// previously joined room is cleared.
func (m *Manager) Register(ctx context.Context, name string) (model.User, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return model.User{}, errors.New("identity: name required")
	}
	normalized := model.NormalizeName(trimmed)

	// Without a backend there is no shared directory to collide with, so the
	// identity is created locally and never published.
	if m.remote != nil {
		if _, ok, err := m.lookup(ctx, normalized); err != nil {
			return model.User{}, err
		} else if ok {
			return model.User{}, ErrDuplicateName
		}
	}

	// Retire the previous identity's room membership before the new identity
	// takes over, or its record lingers in the room as a ghost member.
	if err := m.LeaveRoom(ctx); err != nil {
		return model.User{}, err
	}

	id := model.NewID()
	u := model.User{
		ID:        id,
		Name:      trimmed,
		NameLower: normalized,
		Color:     m.accent.MemberColor(colorIndex(id)),
	}
	if m.remote != nil {
		data, err := json.Marshal(u)
		if err != nil {
			return model.User{}, fmt.Errorf("identity: encode user: %w", err)
		}
		if err := m.remote.Upsert(ctx, remote.UsersPath, u.ID, data); err != nil {
			return model.User{}, fmt.Errorf("identity: register: %w", err)
		}
	}

	m.mu.Lock()
	m.user = &u
	m.mu.Unlock()
	if err := m.local.SaveIdentity(u); err != nil {
		fmt.Fprintf(os.Stderr, "identity: persist: %v\n", err)
	}
	return u, nil
}

// Login restores the identity registered under name. The room affiliation of
// this device, if any, is preserved.
func (m *Manager) Login(ctx context.Context, name string) (model.User, error) {
	normalized := model.NormalizeName(name)

	// Without a backend the only identity that can be restored is the one
	// persisted on this device.
	if m.remote == nil {
		saved, ok := m.local.Identity()
		if !ok || saved.NameLower != normalized {
			return model.User{}, ErrNotFound
		}
		m.mu.Lock()
		m.user = &saved
		m.mu.Unlock()
		return saved, nil
	}

	u, ok, err := m.lookup(ctx, normalized)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, ErrNotFound
	}

	m.mu.Lock()
	m.user = &u
	m.mu.Unlock()
	if err := m.local.SaveIdentity(u); err != nil {
		fmt.Fprintf(os.Stderr, "identity: persist: %v\n", err)
	}
	return u, nil
}

// Logout clears the identity only. The room code survives so the next login
// on this device rejoins the same shared calendar without re-entering it.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
	if err := m.local.ClearIdentity(); err != nil {
		fmt.Fprintf(os.Stderr, "identity: clear: %v\n", err)
	}
}

// colorIndex spreads identities across the theme palette deterministically,
// so the same account renders the same color on every device.
func colorIndex(id string) int {
	sum := 0
	for _, b := range []byte(id) {
		sum = (sum*31 + int(b)) % 997
	}
	return sum
}

func (m *Manager) lookup(ctx context.Context, normalized string) (model.User, bool, error) {
	docs, err := m.remote.Query(ctx, remote.UsersPath, "nameLower", normalized)
	if err != nil {
		return model.User{}, false, fmt.Errorf("identity: lookup: %w", err)
	}
	if len(docs) == 0 {
		return model.User{}, false, nil
	}
	var u model.User
	if err := json.Unmarshal(docs[0].Data, &u); err != nil {
		return model.User{}, false, fmt.Errorf("identity: decode user: %w", err)
	}
	return u, true, nil
}
