package remote

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// Memory is an in-process Store. It backs tests and the "off" remote mode,
// where the engine still runs its full subscription loop against a loopback.
type Memory struct {
	mu   sync.Mutex
	docs map[string]map[string]json.RawMessage
	subs map[string]map[int]chan Snapshot
	next int
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string]map[string]json.RawMessage),
		subs: make(map[string]map[int]chan Snapshot),
	}
}

func (m *Memory) Subscribe(ctx context.Context, path string) (<-chan Snapshot, error) {
	m.mu.Lock()
	ch := make(chan Snapshot, 16)
	id := m.next
	m.next++
	if m.subs[path] == nil {
		m.subs[path] = make(map[int]chan Snapshot)
	}
	m.subs[path][id] = ch
	push(ch, m.snapshotLocked(path))
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		if subs, ok := m.subs[path]; ok {
			if _, live := subs[id]; live {
				delete(subs, id)
				close(ch)
			}
		}
		m.mu.Unlock()
	}()
	return ch, nil
}

func (m *Memory) Upsert(ctx context.Context, path, id string, data json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[path] == nil {
		m.docs[path] = make(map[string]json.RawMessage)
	}
	m.docs[path][id] = append(json.RawMessage(nil), data...)
	m.broadcastLocked(path)
	return nil
}

func (m *Memory) Delete(ctx context.Context, path, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if docs, ok := m.docs[path]; ok {
		delete(docs, id)
	}
	m.broadcastLocked(path)
	return nil
}

func (m *Memory) Query(ctx context.Context, path, field, value string) ([]Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Doc, 0)
	for _, doc := range m.snapshotLocked(path).Docs {
		if matches(doc.Data, field, value) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *Memory) Batch(ctx context.Context, writes []Write) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	touched := make(map[string]struct{})
	for _, w := range writes {
		if w.Delete {
			if docs, ok := m.docs[w.Path]; ok {
				delete(docs, w.ID)
			}
		} else {
			if m.docs[w.Path] == nil {
				m.docs[w.Path] = make(map[string]json.RawMessage)
			}
			m.docs[w.Path][w.ID] = append(json.RawMessage(nil), w.Data...)
		}
		touched[w.Path] = struct{}{}
	}
	for path := range touched {
		m.broadcastLocked(path)
	}
	return nil
}

func (m *Memory) snapshotLocked(path string) Snapshot {
	snap := Snapshot{Path: path, Docs: make([]Doc, 0, len(m.docs[path]))}
	for id, data := range m.docs[path] {
		snap.Docs = append(snap.Docs, Doc{ID: id, Data: data})
	}
	sort.Slice(snap.Docs, func(i, j int) bool { return snap.Docs[i].ID < snap.Docs[j].ID })
	return snap
}

func (m *Memory) broadcastLocked(path string) {
	snap := m.snapshotLocked(path)
	for _, ch := range m.subs[path] {
		push(ch, snap)
	}
}

// push delivers without blocking. When the buffer is full the oldest pending
// snapshot is dropped; every snapshot is full state, so only the newest one
// matters.
func push(ch chan Snapshot, snap Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
