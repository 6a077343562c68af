// Package remote defines the capability contract the sync engine consumes
// from a shared document store, plus the backends that satisfy it. The engine
// depends on exactly five primitives: subscribe with push updates, upsert,
// delete, query by field equality, and an atomic-in-intent batch write.
package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"tableflip.dev/haru/pkg/model"
)

// Doc is one JSON-encoded record in a remote collection.
type Doc struct {
	ID   string
	Data json.RawMessage
}

// Snapshot is a full-collection push update. Each snapshot supersedes all
// prior state for its path; consumers replace, never patch.
type Snapshot struct {
	Path string
	Docs []Doc
}

// Write is one element of a batch.
type Write struct {
	Path   string
	ID     string
	Data   json.RawMessage
	Delete bool
}

// Store is the remote collection contract.
type Store interface {
	// Subscribe emits the current snapshot for path, then a new snapshot
	// after every observed change, until ctx is done. Within one path,
	// snapshots arrive in order; across paths no ordering is promised.
	Subscribe(ctx context.Context, path string) (<-chan Snapshot, error)

	Upsert(ctx context.Context, path, id string, data json.RawMessage) error
	Delete(ctx context.Context, path, id string) error

	// Query returns the docs in path whose top-level field equals value.
	Query(ctx context.Context, path, field, value string) ([]Doc, error)

	// Batch applies the writes together. Backends apply them atomically when
	// they can; partial application on failure is tolerated by callers.
	Batch(ctx context.Context, writes []Write) error
}

// UsersPath is the identity directory.
const UsersPath = "users"

// UserDataPath is the per-user mirror of one collection.
func UserDataPath(userID string, c model.Collection) string {
	return fmt.Sprintf("userData/%s/%s", userID, c)
}

// RoomUsersPath is the membership collection of a room. Presence of a doc
// means membership; absence means not a member.
func RoomUsersPath(code string) string {
	return fmt.Sprintf("rooms/%s/users", code)
}

// matches reports whether the doc's top-level field equals value.
func matches(data json.RawMessage, field, value string) bool {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return false
	}
	got, ok := m[field]
	if !ok {
		return false
	}
	return fmt.Sprintf("%v", got) == value
}
