package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/peterbourgon/diskv/v3"
)

// FileStore is a Store over a shared directory. Processes on one machine can
// share a room through it with no network at all: writes land as diskv
// records and fsnotify turns other processes' writes into push snapshots.
type FileStore struct {
	d        *diskv.Diskv
	basePath string

	mu       sync.Mutex
	subs     map[string]map[int]chan Snapshot
	next     int
	watching bool
}

// OpenFile creates a FileStore rooted at basePath.
func OpenFile(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("remote: ensure base path: %w", err)
	}
	return &FileStore{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath: basePath,
		subs:     make(map[string]map[int]chan Snapshot),
	}, nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(append([]string{}, pathKey.Path...), pathKey.FileName), "/")
}

func (f *FileStore) Subscribe(ctx context.Context, path string) (<-chan Snapshot, error) {
	f.mu.Lock()
	if err := f.ensureWatcherLocked(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	ch := make(chan Snapshot, 16)
	id := f.next
	f.next++
	if f.subs[path] == nil {
		f.subs[path] = make(map[int]chan Snapshot)
	}
	f.subs[path][id] = ch
	push(ch, f.snapshot(path))
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		if subs, ok := f.subs[path]; ok {
			if _, live := subs[id]; live {
				delete(subs, id)
				close(ch)
			}
		}
		f.mu.Unlock()
	}()
	return ch, nil
}

func (f *FileStore) Upsert(ctx context.Context, path, id string, data json.RawMessage) error {
	if err := f.d.Write(path+"/"+id, data); err != nil {
		return fmt.Errorf("remote: write %s/%s: %w", path, id, err)
	}
	f.broadcast(path)
	return nil
}

func (f *FileStore) Delete(ctx context.Context, path, id string) error {
	if err := f.d.Erase(path + "/" + id); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remote: erase %s/%s: %w", path, id, err)
	}
	f.broadcast(path)
	return nil
}

func (f *FileStore) Query(ctx context.Context, path, field, value string) ([]Doc, error) {
	out := make([]Doc, 0)
	for _, doc := range f.snapshot(path).Docs {
		if matches(doc.Data, field, value) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (f *FileStore) Batch(ctx context.Context, writes []Write) error {
	touched := make(map[string]struct{})
	for _, w := range writes {
		key := w.Path + "/" + w.ID
		if w.Delete {
			if err := f.d.Erase(key); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remote: erase %s: %w", key, err)
			}
		} else {
			if err := f.d.Write(key, w.Data); err != nil {
				return fmt.Errorf("remote: write %s: %w", key, err)
			}
		}
		touched[w.Path] = struct{}{}
	}
	for path := range touched {
		f.broadcast(path)
	}
	return nil
}

func (f *FileStore) snapshot(path string) Snapshot {
	snap := Snapshot{Path: path}
	prefix := path + "/"
	for key := range f.d.Keys(nil) {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		data, err := f.d.Read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "remote: %s: %v\n", key, err)
			continue
		}
		snap.Docs = append(snap.Docs, Doc{ID: rest, Data: data})
	}
	sort.Slice(snap.Docs, func(i, j int) bool { return snap.Docs[i].ID < snap.Docs[j].ID })
	return snap
}

func (f *FileStore) broadcast(path string) {
	f.mu.Lock()
	snap := f.snapshot(path)
	for _, ch := range f.subs[path] {
		push(ch, snap)
	}
	f.mu.Unlock()
}

// ensureWatcherLocked starts the shared fsnotify loop that converts external
// writes into snapshots for every subscribed path. Events are coalesced so a
// burst of writes produces one refresh.
func (f *FileStore) ensureWatcherLocked() error {
	if f.watching {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("remote: create watcher: %w", err)
	}

	watched := make(map[string]struct{})
	addDir := func(dir string) {
		if _, ok := watched[dir]; ok {
			return
		}
		if err := watcher.Add(dir); err != nil {
			fmt.Fprintf(os.Stderr, "remote: watch %s: %v\n", dir, err)
			return
		}
		watched[dir] = struct{}{}
	}
	_ = filepath.WalkDir(f.basePath, func(path string, d fs.DirEntry, err error) error {
		if err == nil && d.IsDir() {
			addDir(path)
		}
		return nil
	})

	f.watching = true
	go func() {
		var timer *time.Timer
		refresh := func() {
			f.mu.Lock()
			paths := make([]string, 0, len(f.subs))
			for path := range f.subs {
				paths = append(paths, path)
			}
			f.mu.Unlock()
			for _, path := range paths {
				f.broadcast(path)
			}
		}
		for {
			select {
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						addDir(filepath.Clean(evt.Name))
					}
				}
				f.mu.Lock()
				if timer == nil {
					timer = time.AfterFunc(100*time.Millisecond, func() {
						f.mu.Lock()
						timer = nil
						f.mu.Unlock()
						refresh()
					})
				}
				f.mu.Unlock()
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}
