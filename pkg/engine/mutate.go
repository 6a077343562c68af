package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"tableflip.dev/haru/pkg/model"
	"tableflip.dev/haru/pkg/remote"
	"tableflip.dev/haru/pkg/timeutil"
)

// Every mutation follows the same contract: validate first, stamp the acting
// user's identity atomically, apply to the in-memory view and the local
// durable store synchronously, then fire the remote upsert without making the
// caller wait on it. Remote failures are logged; the optimistic local write
// already succeeded and stays authoritative until reconnection.

var errNotFound = errors.New("engine: record not found")

// stamp returns the current identity's owner fields; a logged-out engine
// stamps nothing and works purely locally.
func (e *Engine) stamp() model.Owner {
	u, ok := e.ids.Current()
	if !ok {
		return model.Owner{}
	}
	return model.Stamp(u)
}

func (e *Engine) connected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rem != nil && e.cancelOwn != nil
}

// remoteUpsert mirrors one record up, fire-and-forget.
func (e *Engine) remoteUpsert(c model.Collection, id string, rec any) {
	if !e.connected() {
		return
	}
	u, ok := e.ids.Current()
	if !ok {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine: encode %s/%s: %v\n", c, id, err)
		return
	}
	ctx := e.background()
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.rem.Upsert(ctx, remote.UserDataPath(u.ID, c), id, data); err != nil {
			fmt.Fprintf(os.Stderr, "engine: upsert %s/%s: %v\n", c, id, err)
		}
	}()
}

// remoteDelete mirrors one deletion up, fire-and-forget.
func (e *Engine) remoteDelete(c model.Collection, id string) {
	if !e.connected() {
		return
	}
	u, ok := e.ids.Current()
	if !ok {
		return
	}
	ctx := e.background()
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.rem.Delete(ctx, remote.UserDataPath(u.ID, c), id); err != nil {
			fmt.Fprintf(os.Stderr, "engine: delete %s/%s: %v\n", c, id, err)
		}
	}()
}

func (e *Engine) background() context.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.runCtx != nil {
		return e.runCtx
	}
	return context.Background()
}

// SetTimeBlock writes the note and category of this user's block at
// (date, slot), creating the row on first content. The updated view is
// readable before the remote round trip completes.
func (e *Engine) SetTimeBlock(ctx context.Context, date string, slot int, categoryID, note string) (model.TimeBlock, error) {
	if _, err := timeutil.ParseDate(date); err != nil {
		return model.TimeBlock{}, fmt.Errorf("engine: bad date %q: %w", date, err)
	}
	if slot < 0 || slot >= timeutil.SlotsPerDay {
		return model.TimeBlock{}, fmt.Errorf("engine: slot %d out of range", slot)
	}
	if categoryID != "" {
		if _, ok := e.Category(categoryID); !ok {
			return model.TimeBlock{}, fmt.Errorf("engine: unknown category %q", categoryID)
		}
	}

	tracked := e.connected()
	e.mu.Lock()
	b, ok := e.ownBlockAtLocked(date, slot)
	if !ok {
		b = model.TimeBlock{ID: model.NewID(), Date: date, Slot: slot}
	}
	b.CategoryID = categoryID
	b.Note = note
	b.Owner = e.stamp()
	e.blocks.put(b.ID, b, tracked)
	e.persistLocked(model.TimeBlocks)
	e.mu.Unlock()

	e.remoteUpsert(model.TimeBlocks, b.ID, b)
	e.notify(Event{Kind: EventData, Collection: model.TimeBlocks})
	return b, nil
}

// DeleteTimeBlock removes this user's block row at (date, slot). Missing rows
// are fine; the slot was already empty.
func (e *Engine) DeleteTimeBlock(ctx context.Context, date string, slot int) error {
	tracked := e.connected()
	e.mu.Lock()
	b, ok := e.ownBlockAtLocked(date, slot)
	if ok {
		e.blocks.remove(b.ID, tracked)
		e.persistLocked(model.TimeBlocks)
	}
	e.mu.Unlock()
	if !ok {
		return nil
	}
	e.remoteDelete(model.TimeBlocks, b.ID)
	e.notify(Event{Kind: EventData, Collection: model.TimeBlocks})
	return nil
}

// AddTodo appends a todo at the tail of the date's order.
func (e *Engine) AddTodo(ctx context.Context, date, text string) (model.Todo, error) {
	if _, err := timeutil.ParseDate(date); err != nil {
		return model.Todo{}, fmt.Errorf("engine: bad date %q: %w", date, err)
	}
	if text == "" {
		return model.Todo{}, errors.New("engine: todo text required")
	}

	tracked := e.connected()
	e.mu.Lock()
	orders := make([]int, 0)
	for _, t := range e.todos.recs {
		if t.Date == date {
			orders = append(orders, t.Order)
		}
	}
	todo := model.Todo{
		ID:    model.NewID(),
		Date:  date,
		Text:  text,
		Order: model.NextOrder(orders),
		Owner: e.stamp(),
	}
	e.todos.put(todo.ID, todo, tracked)
	e.persistLocked(model.Todos)
	e.mu.Unlock()

	e.remoteUpsert(model.Todos, todo.ID, todo)
	e.notify(Event{Kind: EventData, Collection: model.Todos})
	return todo, nil
}

// ToggleTodo flips completion.
func (e *Engine) ToggleTodo(ctx context.Context, id string) (model.Todo, error) {
	tracked := e.connected()
	e.mu.Lock()
	todo, ok := e.todos.recs[id]
	if ok {
		todo.Completed = !todo.Completed
		e.todos.put(id, todo, tracked)
		e.persistLocked(model.Todos)
	}
	e.mu.Unlock()
	if !ok {
		return model.Todo{}, errNotFound
	}
	e.remoteUpsert(model.Todos, id, todo)
	e.notify(Event{Kind: EventData, Collection: model.Todos})
	return todo, nil
}

// MoveTodo shifts a todo one position up (delta < 0) or down (delta > 0)
// within its date by swapping order values with its neighbor.
func (e *Engine) MoveTodo(ctx context.Context, id string, delta int) error {
	tracked := e.connected()
	e.mu.Lock()
	todo, ok := e.todos.recs[id]
	if !ok {
		e.mu.Unlock()
		return errNotFound
	}
	siblings := model.TodosOn(e.todos.list(), todo.Date)
	idx := -1
	for i, t := range siblings {
		if t.ID == id {
			idx = i
			break
		}
	}
	swap := idx + sign(delta)
	if idx < 0 || swap < 0 || swap >= len(siblings) {
		e.mu.Unlock()
		return nil
	}
	other := siblings[swap]
	todo.Order, other.Order = other.Order, todo.Order
	if todo.Order == other.Order {
		// Equal keys would make the swap invisible; force distinct ones.
		other.Order = todo.Order + 1
	}
	e.todos.put(todo.ID, todo, tracked)
	e.todos.put(other.ID, other, tracked)
	e.persistLocked(model.Todos)
	e.mu.Unlock()

	e.remoteUpsert(model.Todos, todo.ID, todo)
	e.remoteUpsert(model.Todos, other.ID, other)
	e.notify(Event{Kind: EventData, Collection: model.Todos})
	return nil
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}

// DeleteTodo removes a todo by id.
func (e *Engine) DeleteTodo(ctx context.Context, id string) error {
	tracked := e.connected()
	e.mu.Lock()
	_, ok := e.todos.recs[id]
	if ok {
		e.todos.remove(id, tracked)
		e.persistLocked(model.Todos)
	}
	e.mu.Unlock()
	if !ok {
		return errNotFound
	}
	e.remoteDelete(model.Todos, id)
	e.notify(Event{Kind: EventData, Collection: model.Todos})
	return nil
}

// AddGoal appends a weekly goal at the tail of its week's order. The date may
// be any day of the week; it is normalized to the Monday.
func (e *Engine) AddGoal(ctx context.Context, date, text string) (model.WeeklyGoal, error) {
	weekStart, err := timeutil.WeekStart(date)
	if err != nil {
		return model.WeeklyGoal{}, fmt.Errorf("engine: bad date %q: %w", date, err)
	}
	if text == "" {
		return model.WeeklyGoal{}, errors.New("engine: goal text required")
	}

	tracked := e.connected()
	e.mu.Lock()
	orders := make([]int, 0)
	for _, g := range e.goals.recs {
		if g.WeekStart == weekStart {
			orders = append(orders, g.Order)
		}
	}
	goal := model.WeeklyGoal{
		ID:        model.NewID(),
		WeekStart: weekStart,
		Text:      text,
		Order:     model.NextOrder(orders),
		Owner:     e.stamp(),
	}
	e.goals.put(goal.ID, goal, tracked)
	e.persistLocked(model.WeeklyGoals)
	e.mu.Unlock()

	e.remoteUpsert(model.WeeklyGoals, goal.ID, goal)
	e.notify(Event{Kind: EventData, Collection: model.WeeklyGoals})
	return goal, nil
}

// ToggleGoal flips completion.
func (e *Engine) ToggleGoal(ctx context.Context, id string) (model.WeeklyGoal, error) {
	tracked := e.connected()
	e.mu.Lock()
	goal, ok := e.goals.recs[id]
	if ok {
		goal.Completed = !goal.Completed
		e.goals.put(id, goal, tracked)
		e.persistLocked(model.WeeklyGoals)
	}
	e.mu.Unlock()
	if !ok {
		return model.WeeklyGoal{}, errNotFound
	}
	e.remoteUpsert(model.WeeklyGoals, id, goal)
	e.notify(Event{Kind: EventData, Collection: model.WeeklyGoals})
	return goal, nil
}

// DeleteGoal removes a goal by id.
func (e *Engine) DeleteGoal(ctx context.Context, id string) error {
	tracked := e.connected()
	e.mu.Lock()
	_, ok := e.goals.recs[id]
	if ok {
		e.goals.remove(id, tracked)
		e.persistLocked(model.WeeklyGoals)
	}
	e.mu.Unlock()
	if !ok {
		return errNotFound
	}
	e.remoteDelete(model.WeeklyGoals, id)
	e.notify(Event{Kind: EventData, Collection: model.WeeklyGoals})
	return nil
}

// PlanGoal copies a weekly goal onto a day as a fresh todo. Copy semantics:
// the todo gets its own id and no backreference, and the goal stays.
func (e *Engine) PlanGoal(ctx context.Context, id, date string) (model.Todo, error) {
	e.mu.Lock()
	goal, ok := e.goals.recs[id]
	e.mu.Unlock()
	if !ok {
		return model.Todo{}, errNotFound
	}
	return e.AddTodo(ctx, date, goal.Text)
}

// AddEvent records an event on a date. The time may be a parseable range or
// free text; both render, only the former binds to time blocks.
func (e *Engine) AddEvent(ctx context.Context, date, title, timeStr, note string) (model.Event, error) {
	if _, err := timeutil.ParseDate(date); err != nil {
		return model.Event{}, fmt.Errorf("engine: bad date %q: %w", date, err)
	}
	if title == "" {
		return model.Event{}, errors.New("engine: event title required")
	}

	tracked := e.connected()
	ev := model.Event{
		ID:    model.NewID(),
		Date:  date,
		Title: title,
		Time:  timeStr,
		Note:  note,
		Owner: e.stamp(),
	}
	e.mu.Lock()
	e.events.put(ev.ID, ev, tracked)
	e.persistLocked(model.Events)
	e.mu.Unlock()

	e.remoteUpsert(model.Events, ev.ID, ev)
	e.notify(Event{Kind: EventData, Collection: model.Events})
	return ev, nil
}

// DeleteEvent removes an event. When its time parses as a range, the covered
// blocks of this user have their note and category cleared first; the rows
// themselves stay. An unparseable time skips the clearing and just deletes
// the event.
func (e *Engine) DeleteEvent(ctx context.Context, id string) error {
	tracked := e.connected()
	e.mu.Lock()
	ev, ok := e.events.recs[id]
	if !ok {
		e.mu.Unlock()
		return errNotFound
	}

	var cleared []model.TimeBlock
	if start, end, parsed := timeutil.ParseRange(ev.Time); parsed {
		for slot := start; slot < end; slot++ {
			if b, found := e.ownBlockAtLocked(ev.Date, slot); found {
				b.Note = ""
				b.CategoryID = ""
				e.blocks.put(b.ID, b, tracked)
				cleared = append(cleared, b)
			}
		}
		if len(cleared) > 0 {
			e.persistLocked(model.TimeBlocks)
		}
	}
	e.events.remove(id, tracked)
	e.persistLocked(model.Events)
	e.mu.Unlock()

	for _, b := range cleared {
		e.remoteUpsert(model.TimeBlocks, b.ID, b)
	}
	e.remoteDelete(model.Events, id)
	if len(cleared) > 0 {
		e.notify(Event{Kind: EventData, Collection: model.TimeBlocks})
	}
	e.notify(Event{Kind: EventData, Collection: model.Events})
	return nil
}

// QuickAdd parses a "start-end title" instruction and creates one block per
// covered slot plus one event recording the readable range. Validation
// happens before any write; a partial remote failure leaves the already
// written slots in place, which local-first makes acceptable.
func (e *Engine) QuickAdd(ctx context.Context, date, input string) ([]model.TimeBlock, model.Event, error) {
	if _, err := timeutil.ParseDate(date); err != nil {
		return nil, model.Event{}, fmt.Errorf("engine: bad date %q: %w", date, err)
	}
	q, err := timeutil.ParseQuick(input)
	if err != nil {
		return nil, model.Event{}, err
	}

	tracked := e.connected()
	e.mu.Lock()
	blocks := make([]model.TimeBlock, 0, q.EndSlot-q.StartSlot)
	for slot := q.StartSlot; slot < q.EndSlot; slot++ {
		b, ok := e.ownBlockAtLocked(date, slot)
		if !ok {
			b = model.TimeBlock{ID: model.NewID(), Date: date, Slot: slot}
		}
		b.Note = q.Title
		b.Owner = e.stamp()
		e.blocks.put(b.ID, b, tracked)
		blocks = append(blocks, b)
	}
	ev := model.Event{
		ID:    model.NewID(),
		Date:  date,
		Title: q.Title,
		Time:  q.Range(),
		Owner: e.stamp(),
	}
	e.events.put(ev.ID, ev, tracked)
	e.persistLocked(model.TimeBlocks)
	e.persistLocked(model.Events)
	e.mu.Unlock()

	if e.connected() {
		if u, ok := e.ids.Current(); ok {
			writes := make([]remote.Write, 0, len(blocks)+1)
			for _, b := range blocks {
				if data, err := json.Marshal(b); err == nil {
					writes = append(writes, remote.Write{
						Path: remote.UserDataPath(u.ID, model.TimeBlocks), ID: b.ID, Data: data,
					})
				}
			}
			if data, err := json.Marshal(ev); err == nil {
				writes = append(writes, remote.Write{
					Path: remote.UserDataPath(u.ID, model.Events), ID: ev.ID, Data: data,
				})
			}
			bctx := e.background()
			e.wg.Add(1)
			go func() {
				defer e.wg.Done()
				if err := e.rem.Batch(bctx, writes); err != nil {
					fmt.Fprintf(os.Stderr, "engine: quick add batch: %v\n", err)
				}
			}()
		}
	}
	e.notify(Event{Kind: EventData, Collection: model.TimeBlocks})
	e.notify(Event{Kind: EventData, Collection: model.Events})
	return blocks, ev, nil
}

// AddCategory creates a category.
func (e *Engine) AddCategory(ctx context.Context, name, color, icon string) (model.Category, error) {
	if name == "" {
		return model.Category{}, errors.New("engine: category name required")
	}
	tracked := e.connected()
	c := model.Category{ID: model.NewID(), Name: name, Color: color, Icon: icon}
	e.mu.Lock()
	e.categories.put(c.ID, c, tracked)
	e.persistLocked(model.Categories)
	e.mu.Unlock()
	e.remoteUpsert(model.Categories, c.ID, c)
	e.notify(Event{Kind: EventData, Collection: model.Categories})
	return c, nil
}

// DeleteCategory removes a category; blocks referencing it keep their id and
// simply render uncategorized.
func (e *Engine) DeleteCategory(ctx context.Context, id string) error {
	tracked := e.connected()
	e.mu.Lock()
	_, ok := e.categories.recs[id]
	if ok {
		e.categories.remove(id, tracked)
		e.persistLocked(model.Categories)
	}
	e.mu.Unlock()
	if !ok {
		return errNotFound
	}
	e.remoteDelete(model.Categories, id)
	e.notify(Event{Kind: EventData, Collection: model.Categories})
	return nil
}
