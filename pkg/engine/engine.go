// Package engine is the sync core of the planner. It owns the merged view of
// all five collections, combining this device's optimistic state with remote
// snapshot streams, and enforces the personal/shared partition: time blocks
// and events merge across room members, todos and weekly goals never do.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sync"

	"tableflip.dev/haru/pkg/identity"
	"tableflip.dev/haru/pkg/model"
	"tableflip.dev/haru/pkg/remote"
	"tableflip.dev/haru/pkg/store"
)

// EventKind classifies engine change notifications.
type EventKind int

const (
	// EventData means a collection's merged view changed.
	EventData EventKind = iota
	// EventMembers means the room membership set changed.
	EventMembers
)

// Event is emitted by Watch whenever the published view changes.
type Event struct {
	Kind       EventKind
	Collection model.Collection
}

// colState tracks one own collection: the last applied snapshot overlaid with
// optimistic writes and deletes that have not echoed back yet. Re-applying an
// echoed record is idempotent: same id yields the same record, never a
// duplicate.
type colState[T any] struct {
	recs       map[string]T
	pending    map[string]T
	pendingDel map[string]struct{}
}

func newColState[T any]() *colState[T] {
	return &colState[T]{
		recs:       make(map[string]T),
		pending:    make(map[string]T),
		pendingDel: make(map[string]struct{}),
	}
}

func (s *colState[T]) put(id string, rec T, trackPending bool) {
	s.recs[id] = rec
	delete(s.pendingDel, id)
	if trackPending {
		s.pending[id] = rec
	}
}

func (s *colState[T]) remove(id string, trackPending bool) {
	delete(s.recs, id)
	delete(s.pending, id)
	if trackPending {
		s.pendingDel[id] = struct{}{}
	}
}

// applySnapshot replaces the collection with the decoded snapshot, then
// overlays unconfirmed optimistic state. A pending record whose echo matches
// by content is confirmed and dropped from the overlay.
func (s *colState[T]) applySnapshot(docs []remote.Doc) {
	next := make(map[string]T, len(docs))
	for _, doc := range docs {
		var rec T
		if err := json.Unmarshal(doc.Data, &rec); err != nil {
			fmt.Fprintf(os.Stderr, "engine: drop unparseable record %s: %v\n", doc.ID, err)
			continue
		}
		next[doc.ID] = rec
	}
	for id, rec := range s.pending {
		if echoed, ok := next[id]; ok && reflect.DeepEqual(echoed, rec) {
			delete(s.pending, id)
			continue
		}
		next[id] = rec
	}
	for id := range s.pendingDel {
		if _, ok := next[id]; !ok {
			delete(s.pendingDel, id)
			continue
		}
		delete(next, id)
	}
	s.recs = next
}

func (s *colState[T]) list() []T {
	out := make([]T, 0, len(s.recs))
	for _, rec := range s.recs {
		out = append(out, rec)
	}
	return out
}

// memberData is the latest full snapshot of one foreign member's shared
// records, replaced wholesale on every snapshot arrival.
type memberData struct {
	user   model.User
	blocks map[string]model.TimeBlock
	events map[string]model.Event
	cancel context.CancelFunc
}

// Engine is the sync engine. All state transitions run under one mutex, so
// the read-modify-write store pattern stays safe exactly as it is in the
// single-threaded original; each snapshot stream is drained by one goroutine,
// preserving per-stream order. Every goroutine the engine spawns, stream
// readers and fire-and-forget remote writes alike, is tracked so Close can
// wait them out.
type Engine struct {
	mu  sync.Mutex
	wg  sync.WaitGroup
	ids *identity.Manager

	local store.Persistence
	rem   remote.Store

	categories *colState[model.Category]
	blocks     *colState[model.TimeBlock]
	todos      *colState[model.Todo]
	events     *colState[model.Event]
	goals      *colState[model.WeeklyGoal]

	foreign map[string]*memberData

	runCtx     context.Context
	cancelRoom context.CancelFunc
	cancelOwn  context.CancelFunc

	watchers    map[int]chan Event
	nextWatcher int
}

// New builds an engine over the local store, an optional remote store, and
// the identity manager. The local store is loaded immediately; no remote
// traffic happens until Start.
func New(local store.Persistence, rem remote.Store, ids *identity.Manager) *Engine {
	e := &Engine{
		ids:        ids,
		local:      local,
		rem:        rem,
		categories: newColState[model.Category](),
		blocks:     newColState[model.TimeBlock](),
		todos:      newColState[model.Todo](),
		events:     newColState[model.Event](),
		goals:      newColState[model.WeeklyGoal](),
		foreign:    make(map[string]*memberData),
		watchers:   make(map[int]chan Event),
	}
	for _, c := range local.Categories() {
		e.categories.recs[c.ID] = c
	}
	for _, b := range local.TimeBlocks() {
		e.blocks.recs[b.ID] = b
	}
	for _, t := range local.Todos() {
		e.todos.recs[t.ID] = t
	}
	for _, ev := range local.Events() {
		e.events.recs[ev.ID] = ev
	}
	for _, g := range local.WeeklyGoals() {
		e.goals.recs[g.ID] = g
	}
	return e
}

// Start begins remote subscriptions for the current identity and room. It is
// a no-op without a remote store or a logged-in user.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	e.runCtx = ctx
	e.mu.Unlock()
	if e.rem == nil {
		return nil
	}
	if _, ok := e.ids.Current(); !ok {
		return nil
	}
	e.connectOwn()
	if e.ids.RoomCode() != "" {
		e.connectRoom()
	}
	return nil
}

// Close tears down every subscription and waits for all in-flight work:
// stream readers drain until their channels close, and fire-and-forget remote
// writes run to completion. One-shot commands must call it before exiting, or
// a delete whose goroutine has not landed yet is lost and the stale remote
// record echoes back on the next run.
func (e *Engine) Close() {
	e.disconnectRoom()
	e.disconnectOwn()
	e.wg.Wait()
}

// connectOwn mirrors local state up and subscribes to the per-user echo
// streams for all five collections.
func (e *Engine) connectOwn() {
	u, ok := e.ids.Current()
	if !ok || e.rem == nil {
		return
	}
	e.mu.Lock()
	if e.cancelOwn != nil {
		e.mu.Unlock()
		return
	}
	base := e.runCtx
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithCancel(base)
	e.cancelOwn = cancel
	e.mu.Unlock()

	if err := e.mirrorUp(ctx, u); err != nil {
		fmt.Fprintf(os.Stderr, "engine: mirror local data: %v\n", err)
	}

	for _, c := range []model.Collection{
		model.Categories, model.TimeBlocks, model.Todos, model.Events, model.WeeklyGoals,
	} {
		c := c
		path := remote.UserDataPath(u.ID, c)
		ch, err := e.rem.Subscribe(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "engine: subscribe %s: %v\n", path, err)
			continue
		}
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			for snap := range ch {
				e.applyOwnSnapshot(c, snap)
			}
		}()
	}
}

// connectRoom subscribes to the membership stream; member data streams come
// and go with the membership set.
func (e *Engine) connectRoom() {
	u, ok := e.ids.Current()
	code := e.ids.RoomCode()
	if !ok || code == "" || e.rem == nil {
		return
	}
	e.mu.Lock()
	if e.cancelRoom != nil {
		e.mu.Unlock()
		return
	}
	base := e.runCtx
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithCancel(base)
	e.cancelRoom = cancel
	e.mu.Unlock()

	ch, err := e.rem.Subscribe(ctx, remote.RoomUsersPath(code))
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine: subscribe room %s: %v\n", code, err)
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for snap := range ch {
			e.applyMembership(ctx, u.ID, snap)
		}
	}()
}

// disconnectRoom tears down the membership stream and every member stream,
// and purges their contributed records. Idempotent: safe with nothing active.
func (e *Engine) disconnectRoom() {
	e.mu.Lock()
	if e.cancelRoom != nil {
		e.cancelRoom()
		e.cancelRoom = nil
	}
	purged := len(e.foreign) > 0
	for id, member := range e.foreign {
		if member.cancel != nil {
			member.cancel()
		}
		delete(e.foreign, id)
	}
	e.mu.Unlock()
	if purged {
		e.notify(Event{Kind: EventData, Collection: model.TimeBlocks})
		e.notify(Event{Kind: EventData, Collection: model.Events})
	}
	e.notify(Event{Kind: EventMembers})
}

// disconnectOwn tears down the echo streams. Idempotent.
func (e *Engine) disconnectOwn() {
	e.mu.Lock()
	if e.cancelOwn != nil {
		e.cancelOwn()
		e.cancelOwn = nil
	}
	e.mu.Unlock()
}

// applyMembership diffs the member set against current subscriptions:
// arrivals get data streams, departures are cancelled and purged so stale
// snapshots never resurrect a departed member's records.
func (e *Engine) applyMembership(roomCtx context.Context, selfID string, snap remote.Snapshot) {
	current := make(map[string]model.User, len(snap.Docs))
	for _, doc := range snap.Docs {
		var u model.User
		if err := json.Unmarshal(doc.Data, &u); err != nil {
			fmt.Fprintf(os.Stderr, "engine: drop unparseable member %s: %v\n", doc.ID, err)
			continue
		}
		if u.ID == "" {
			u.ID = doc.ID
		}
		if u.ID == selfID {
			continue
		}
		current[u.ID] = u
	}

	e.mu.Lock()
	changed := false
	for id, member := range e.foreign {
		if _, still := current[id]; !still {
			if member.cancel != nil {
				member.cancel()
			}
			delete(e.foreign, id)
			changed = true
		}
	}
	for id, u := range current {
		if member, ok := e.foreign[id]; ok {
			member.user = u
			continue
		}
		ctx, cancel := context.WithCancel(roomCtx)
		member := &memberData{
			user:   u,
			blocks: make(map[string]model.TimeBlock),
			events: make(map[string]model.Event),
			cancel: cancel,
		}
		e.foreign[id] = member
		changed = true
		e.subscribeMemberLocked(ctx, member)
	}
	e.mu.Unlock()

	if changed {
		e.notify(Event{Kind: EventMembers})
		e.notify(Event{Kind: EventData, Collection: model.TimeBlocks})
		e.notify(Event{Kind: EventData, Collection: model.Events})
	}
}

// subscribeMemberLocked starts the shared-type streams for one member.
func (e *Engine) subscribeMemberLocked(ctx context.Context, member *memberData) {
	for _, c := range model.SharedCollections() {
		c := c
		path := remote.UserDataPath(member.user.ID, c)
		ch, err := e.rem.Subscribe(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "engine: subscribe %s: %v\n", path, err)
			continue
		}
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			for snap := range ch {
				e.applyMemberSnapshot(member.user.ID, c, snap)
			}
		}()
	}
}

// applyMemberSnapshot replaces one member's latest records for a shared
// collection. Records claiming a different owner are dropped: a foreign
// stream must never contribute records owned by anyone else, least of all us.
func (e *Engine) applyMemberSnapshot(memberID string, c model.Collection, snap remote.Snapshot) {
	e.mu.Lock()
	member, ok := e.foreign[memberID]
	if !ok {
		// Departed between snapshot delivery and application.
		e.mu.Unlock()
		return
	}
	switch c {
	case model.TimeBlocks:
		next := make(map[string]model.TimeBlock, len(snap.Docs))
		for _, doc := range snap.Docs {
			var b model.TimeBlock
			if err := json.Unmarshal(doc.Data, &b); err != nil {
				fmt.Fprintf(os.Stderr, "engine: drop unparseable record %s: %v\n", doc.ID, err)
				continue
			}
			if b.OwnerID != memberID {
				fmt.Fprintf(os.Stderr, "engine: drop mis-owned block %s from %s\n", doc.ID, memberID)
				continue
			}
			next[doc.ID] = b
		}
		member.blocks = next
	case model.Events:
		next := make(map[string]model.Event, len(snap.Docs))
		for _, doc := range snap.Docs {
			var ev model.Event
			if err := json.Unmarshal(doc.Data, &ev); err != nil {
				fmt.Fprintf(os.Stderr, "engine: drop unparseable record %s: %v\n", doc.ID, err)
				continue
			}
			if ev.OwnerID != memberID {
				fmt.Fprintf(os.Stderr, "engine: drop mis-owned event %s from %s\n", doc.ID, memberID)
				continue
			}
			next[doc.ID] = ev
		}
		member.events = next
	}
	e.mu.Unlock()
	e.notify(Event{Kind: EventData, Collection: c})
}

// applyOwnSnapshot reconciles an echo stream snapshot with optimistic state
// and re-persists the result locally, keeping the device durable even when
// the echo originated on another device of the same account.
func (e *Engine) applyOwnSnapshot(c model.Collection, snap remote.Snapshot) {
	e.mu.Lock()
	switch c {
	case model.Categories:
		e.categories.applySnapshot(snap.Docs)
	case model.TimeBlocks:
		e.blocks.applySnapshot(snap.Docs)
	case model.Todos:
		e.todos.applySnapshot(snap.Docs)
	case model.Events:
		e.events.applySnapshot(snap.Docs)
	case model.WeeklyGoals:
		e.goals.applySnapshot(snap.Docs)
	}
	e.persistLocked(c)
	e.mu.Unlock()
	e.notify(Event{Kind: EventData, Collection: c})
}

// mirrorUp pushes the full local state to the per-user mirror in one batch,
// so a freshly connected account starts from its durable local truth.
func (e *Engine) mirrorUp(ctx context.Context, u model.User) error {
	e.mu.Lock()
	var writes []remote.Write
	add := func(c model.Collection, id string, rec any) {
		data, err := json.Marshal(rec)
		if err != nil {
			return
		}
		writes = append(writes, remote.Write{Path: remote.UserDataPath(u.ID, c), ID: id, Data: data})
	}
	for id, rec := range e.categories.recs {
		add(model.Categories, id, rec)
	}
	for id, rec := range e.blocks.recs {
		add(model.TimeBlocks, id, rec)
	}
	for id, rec := range e.todos.recs {
		add(model.Todos, id, rec)
	}
	for id, rec := range e.events.recs {
		add(model.Events, id, rec)
	}
	for id, rec := range e.goals.recs {
		add(model.WeeklyGoals, id, rec)
	}
	e.mu.Unlock()
	if len(writes) == 0 {
		return nil
	}
	return e.rem.Batch(ctx, writes)
}

// persistLocked writes one collection's own records back to the local store.
// Failures are logged, never surfaced: availability over strict durability.
func (e *Engine) persistLocked(c model.Collection) {
	var err error
	switch c {
	case model.Categories:
		err = e.local.SaveCategories(sortedCategories(e.categories.list()))
	case model.TimeBlocks:
		err = e.local.SaveTimeBlocks(e.blocks.list())
	case model.Todos:
		err = e.local.SaveTodos(e.todos.list())
	case model.Events:
		err = e.local.SaveEvents(e.events.list())
	case model.WeeklyGoals:
		err = e.local.SaveWeeklyGoals(e.goals.list())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine: persist %s: %v\n", c, err)
	}
}

// Watch streams change events until ctx is done. Consumers should drain the
// channel; slow consumers lose intermediate events, never the final state.
func (e *Engine) Watch(ctx context.Context) <-chan Event {
	e.mu.Lock()
	ch := make(chan Event, 32)
	id := e.nextWatcher
	e.nextWatcher++
	e.watchers[id] = ch
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.mu.Lock()
		if live, ok := e.watchers[id]; ok {
			delete(e.watchers, id)
			close(live)
		}
		e.mu.Unlock()
	}()
	return ch
}

func (e *Engine) notify(ev Event) {
	e.mu.Lock()
	for _, ch := range e.watchers {
		select {
		case ch <- ev:
		default:
		}
	}
	e.mu.Unlock()
}
