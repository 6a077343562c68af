package engine

import (
	"context"
	"sort"

	"tableflip.dev/haru/pkg/model"
	"tableflip.dev/haru/pkg/timeutil"
)

// The view accessors return copies. The merged view is owned exclusively by
// the engine; callers read it, they never mutate it in place.

// Categories returns the category set sorted by name.
func (e *Engine) Categories() []model.Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortedCategories(e.categories.list())
}

// Category resolves a category by id.
func (e *Engine) Category(id string) (model.Category, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.categories.recs[id]
	return c, ok
}

// DayBlocks returns the merged time blocks for a date: own records plus the
// latest snapshot of every present room member, sorted by slot then owner.
func (e *Engine) DayBlocks(date string) []model.TimeBlock {
	e.mu.Lock()
	merged := e.blocks.list()
	for _, member := range e.foreign {
		for _, b := range member.blocks {
			merged = append(merged, b)
		}
	}
	e.mu.Unlock()

	out := model.BlocksOn(merged, date)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Slot != out[j].Slot {
			return out[i].Slot < out[j].Slot
		}
		return out[i].OwnerID < out[j].OwnerID
	})
	return out
}

// BlockAt returns this user's block for (date, slot), synthesizing an empty
// one when no row is stored. Absence is an empty slot, not an error.
func (e *Engine) BlockAt(date string, slot int) model.TimeBlock {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.ownBlockAtLocked(date, slot); ok {
		return b
	}
	u, _ := e.ids.Current()
	return model.TimeBlock{Date: date, Slot: slot, Owner: model.Stamp(u)}
}

func (e *Engine) ownBlockAtLocked(date string, slot int) (model.TimeBlock, bool) {
	uid := ""
	if u, ok := e.ids.Current(); ok {
		uid = u.ID
	}
	for _, b := range e.blocks.recs {
		if b.Date == date && b.Slot == slot && b.OwnerID == uid {
			return b, true
		}
	}
	return model.TimeBlock{}, false
}

// DayTodos returns this user's todos for a date in stable order. Todos are
// personal: other members' todos are never part of the view.
func (e *Engine) DayTodos(date string) []model.Todo {
	e.mu.Lock()
	list := e.todos.list()
	e.mu.Unlock()
	return model.TodosOn(list, date)
}

// DayEvents returns the merged events for a date.
func (e *Engine) DayEvents(date string) []model.Event {
	e.mu.Lock()
	merged := e.events.list()
	for _, member := range e.foreign {
		for _, ev := range member.events {
			merged = append(merged, ev)
		}
	}
	e.mu.Unlock()
	return model.EventsOn(merged, date)
}

// WeekGoals returns this user's goals for the week containing date. Weekly
// goals are personal, like todos.
func (e *Engine) WeekGoals(date string) ([]model.WeeklyGoal, error) {
	weekStart, err := timeutil.WeekStart(date)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	list := e.goals.list()
	e.mu.Unlock()
	return model.GoalsFor(list, weekStart), nil
}

// WeekGrid returns the merged blocks for each day of the week containing
// date, Monday first.
func (e *Engine) WeekGrid(date string) (string, [7][]model.TimeBlock, error) {
	var days [7][]model.TimeBlock
	weekStart, err := timeutil.WeekStart(date)
	if err != nil {
		return "", days, err
	}
	d := weekStart
	for i := 0; i < 7; i++ {
		days[i] = e.DayBlocks(d)
		if d, err = timeutil.AddDays(d, 1); err != nil {
			return "", days, err
		}
	}
	return weekStart, days, nil
}

// Members lists the room members currently contributing to the merge,
// self first.
func (e *Engine) Members() []model.User {
	self, hasSelf := e.ids.Current()
	e.mu.Lock()
	others := make([]model.User, 0, len(e.foreign))
	for _, member := range e.foreign {
		others = append(others, member.user)
	}
	e.mu.Unlock()
	sort.SliceStable(others, func(i, j int) bool { return others[i].Name < others[j].Name })

	out := make([]model.User, 0, 1+len(others))
	if hasSelf {
		out = append(out, self)
	}
	return append(out, others...)
}

func sortedCategories(list []model.Category) []model.Category {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// Session operations. The engine wraps the identity manager so subscriptions
// always track the current identity and room.

// Register creates a fresh identity and connects its mirror streams.
func (e *Engine) Register(ctx context.Context, name string) (model.User, error) {
	e.disconnectRoom()
	e.disconnectOwn()
	u, err := e.ids.Register(ctx, name)
	if err != nil {
		return model.User{}, err
	}
	if e.rem != nil {
		e.connectOwn()
	}
	return u, nil
}

// Login restores an identity and reconnects, rejoining any room this device
// remained affiliated with.
func (e *Engine) Login(ctx context.Context, name string) (model.User, error) {
	e.disconnectRoom()
	e.disconnectOwn()
	u, err := e.ids.Login(ctx, name)
	if err != nil {
		return model.User{}, err
	}
	if e.rem != nil {
		e.connectOwn()
		if e.ids.RoomCode() != "" {
			e.connectRoom()
		}
	}
	return u, nil
}

// Logout clears the identity and synchronously tears down every listener.
// The room code is kept on purpose: the next login rejoins it.
func (e *Engine) Logout() {
	e.disconnectRoom()
	e.disconnectOwn()
	e.ids.Logout()
}

// CreateRoom creates and joins a fresh room.
func (e *Engine) CreateRoom(ctx context.Context) (string, error) {
	code, err := e.ids.CreateRoom(ctx)
	if err != nil {
		return "", err
	}
	e.connectRoom()
	return code, nil
}

// JoinRoom joins an existing room; unknown codes report false, not an error.
func (e *Engine) JoinRoom(ctx context.Context, code string) (bool, error) {
	e.disconnectRoom()
	joined, err := e.ids.JoinRoom(ctx, code)
	if err != nil || !joined {
		return joined, err
	}
	e.connectRoom()
	return true, nil
}

// LeaveRoom departs the room and purges all foreign state from the view.
func (e *Engine) LeaveRoom(ctx context.Context) error {
	err := e.ids.LeaveRoom(ctx)
	e.disconnectRoom()
	return err
}

// Identity reports the current user.
func (e *Engine) Identity() (model.User, bool) {
	return e.ids.Current()
}

// RoomCode reports the joined room code, or "".
func (e *Engine) RoomCode() string {
	return e.ids.RoomCode()
}
