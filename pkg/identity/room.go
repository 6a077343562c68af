package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"tableflip.dev/haru/pkg/model"
	"tableflip.dev/haru/pkg/remote"
)

// codeAlphabet omits easily-confused symbols (0/O, 1/I), leaving 32 choices
// per position.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

// NewRoomCode generates a random 6-character room code.
func NewRoomCode() string {
	var b strings.Builder
	for i := 0; i < codeLength; i++ {
		b.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return b.String()
}

// NormalizeRoomCode uppercases and strips whitespace; wrong-shaped codes stay
// wrong and fail membership lookup later.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

// CreateRoom generates a code, registers the current user as the first
// member, and persists the code locally. A generated code that already has
// members is regenerated a few times before the collision odds are accepted.
func (m *Manager) CreateRoom(ctx context.Context) (string, error) {
	u, ok := m.Current()
	if !ok {
		return "", ErrNoIdentity
	}
	if m.remote == nil {
		return "", ErrOffline
	}

	code := NewRoomCode()
	for attempt := 0; attempt < 5; attempt++ {
		occupied, err := m.roomOccupied(ctx, code)
		if err != nil || !occupied {
			break
		}
		code = NewRoomCode()
	}

	if err := m.putMembership(ctx, code, u); err != nil {
		return "", fmt.Errorf("identity: create room: %w", err)
	}
	m.setRoom(code)
	return code, nil
}

// JoinRoom registers membership under a normalized code. A code that names no
// existing room reports false rather than an error; wrong codes are an
// expected user mistake.
func (m *Manager) JoinRoom(ctx context.Context, code string) (bool, error) {
	u, ok := m.Current()
	if !ok {
		return false, ErrNoIdentity
	}
	if m.remote == nil {
		return false, ErrOffline
	}
	normalized := NormalizeRoomCode(code)
	if len(normalized) != codeLength {
		return false, nil
	}
	occupied, err := m.roomOccupied(ctx, normalized)
	if err != nil {
		return false, fmt.Errorf("identity: join room: %w", err)
	}
	if !occupied {
		return false, nil
	}
	if err := m.putMembership(ctx, normalized, u); err != nil {
		return false, fmt.Errorf("identity: join room: %w", err)
	}
	m.setRoom(normalized)
	return true, nil
}

// LeaveRoom removes this user's membership record, so other members observe
// the departure, and clears the local room code. Safe to call when no room is
// joined.
func (m *Manager) LeaveRoom(ctx context.Context) error {
	m.mu.Lock()
	code := m.room
	user := m.user
	m.mu.Unlock()
	if code == "" {
		return nil
	}
	if user != nil && m.remote != nil {
		if err := m.remote.Delete(ctx, remote.RoomUsersPath(code), user.ID); err != nil {
			fmt.Fprintf(os.Stderr, "identity: leave room: %v\n", err)
		}
	}
	m.setRoom("")
	return nil
}

// Members lists the room's current membership.
func (m *Manager) Members(ctx context.Context, code string) ([]string, error) {
	if m.remote == nil {
		return nil, ErrOffline
	}
	docs, err := m.remote.Query(ctx, remote.RoomUsersPath(code), "kind", "member")
	if err != nil {
		return nil, fmt.Errorf("identity: members: %w", err)
	}
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		var rec membership
		if err := json.Unmarshal(doc.Data, &rec); err != nil {
			continue
		}
		names = append(names, rec.Name)
	}
	return names, nil
}

// membership is the record stored at rooms/{code}/users/{userId}. The fixed
// kind field gives query-by-equality a handle on "all members".
type membership struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Kind  string `json:"kind"`
}

func (m *Manager) putMembership(ctx context.Context, code string, u model.User) error {
	rec := membership{ID: u.ID, Name: u.Name, Color: u.Color, Kind: "member"}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return m.remote.Upsert(ctx, remote.RoomUsersPath(code), u.ID, data)
}

func (m *Manager) roomOccupied(ctx context.Context, code string) (bool, error) {
	docs, err := m.remote.Query(ctx, remote.RoomUsersPath(code), "kind", "member")
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

func (m *Manager) setRoom(code string) {
	m.mu.Lock()
	m.room = code
	m.mu.Unlock()
	var err error
	if code == "" {
		err = m.local.ClearRoomCode()
	} else {
		err = m.local.SaveRoomCode(code)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "identity: persist room: %v\n", err)
	}
}
