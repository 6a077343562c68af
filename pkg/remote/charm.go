package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/charm/kv"
)

// CharmStore is a Store over a Charm Cloud KV database, giving real
// cross-device sync. Charm KV has no push channel, so subscriptions poll:
// each tick syncs the database and emits a snapshot when a path's contents
// changed since the last one delivered.
type CharmStore struct {
	db       *kv.KV
	interval time.Duration
}

// DefaultPollInterval is how often subscriptions sync against Charm Cloud.
const DefaultPollInterval = 3 * time.Second

// OpenCharm opens (or creates) the named Charm KV database using the
// ambient charm account and defaults.
func OpenCharm(name string) (*CharmStore, error) {
	db, err := kv.OpenWithDefaults(name)
	if err != nil {
		return nil, fmt.Errorf("remote: open charm kv: %w", err)
	}
	return &CharmStore{db: db, interval: DefaultPollInterval}, nil
}

// Close releases the underlying database.
func (c *CharmStore) Close() error {
	return c.db.Close()
}

func (c *CharmStore) Subscribe(ctx context.Context, path string) (<-chan Snapshot, error) {
	ch := make(chan Snapshot, 16)
	first, err := c.refresh(path)
	if err != nil {
		return nil, err
	}
	push(ch, first)

	go func() {
		defer close(ch)
		last := encodeDocs(first.Docs)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snap, err := c.refresh(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "remote: charm sync %s: %v\n", path, err)
					continue
				}
				if cur := encodeDocs(snap.Docs); !bytes.Equal(cur, last) {
					last = cur
					push(ch, snap)
				}
			}
		}
	}()
	return ch, nil
}

func (c *CharmStore) Upsert(ctx context.Context, path, id string, data json.RawMessage) error {
	if err := c.db.Set([]byte(path+"/"+id), data); err != nil {
		return fmt.Errorf("remote: charm set %s/%s: %w", path, id, err)
	}
	return nil
}

func (c *CharmStore) Delete(ctx context.Context, path, id string) error {
	if err := c.db.Delete([]byte(path + "/" + id)); err != nil {
		return fmt.Errorf("remote: charm delete %s/%s: %w", path, id, err)
	}
	return nil
}

func (c *CharmStore) Query(ctx context.Context, path, field, value string) ([]Doc, error) {
	snap, err := c.refresh(path)
	if err != nil {
		return nil, err
	}
	out := make([]Doc, 0)
	for _, doc := range snap.Docs {
		if matches(doc.Data, field, value) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (c *CharmStore) Batch(ctx context.Context, writes []Write) error {
	for _, w := range writes {
		var err error
		if w.Delete {
			err = c.Delete(ctx, w.Path, w.ID)
		} else {
			err = c.Upsert(ctx, w.Path, w.ID, w.Data)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// refresh syncs against Charm Cloud and lists the docs under path.
func (c *CharmStore) refresh(path string) (Snapshot, error) {
	if err := c.db.Sync(); err != nil {
		return Snapshot{}, fmt.Errorf("remote: charm sync: %w", err)
	}
	keys, err := c.db.Keys()
	if err != nil {
		return Snapshot{}, fmt.Errorf("remote: charm keys: %w", err)
	}
	snap := Snapshot{Path: path}
	prefix := path + "/"
	for _, key := range keys {
		rest, ok := strings.CutPrefix(string(key), prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		data, err := c.db.Get(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "remote: charm get %s: %v\n", key, err)
			continue
		}
		snap.Docs = append(snap.Docs, Doc{ID: rest, Data: data})
	}
	sort.Slice(snap.Docs, func(i, j int) bool { return snap.Docs[i].ID < snap.Docs[j].ID })
	return snap, nil
}

// encodeDocs produces a comparable fingerprint of a doc list.
func encodeDocs(docs []Doc) []byte {
	var buf bytes.Buffer
	for _, d := range docs {
		buf.WriteString(d.ID)
		buf.WriteByte(0)
		buf.Write(d.Data)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}
