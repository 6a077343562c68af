// Package store is the local durable store: one diskv record per collection,
// JSON-encoded. It is the source of truth when no room is joined and the
// offline fallback when one is.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/haru/pkg/model"
)

// Persistence is the local store contract. Load/save never fail on corrupt
// data; a record that does not deserialize is replaced by its default and the
// failure is logged.
type Persistence interface {
	Categories() []model.Category
	SaveCategories([]model.Category) error
	TimeBlocks() []model.TimeBlock
	SaveTimeBlocks([]model.TimeBlock) error
	Todos() []model.Todo
	SaveTodos([]model.Todo) error
	Events() []model.Event
	SaveEvents([]model.Event) error
	WeeklyGoals() []model.WeeklyGoal
	SaveWeeklyGoals([]model.WeeklyGoal) error

	Identity() (model.User, bool)
	SaveIdentity(model.User) error
	ClearIdentity() error
	RoomCode() string
	SaveRoomCode(code string) error
	ClearRoomCode() error

	BasePath() string
}

const (
	keyIdentity = "identity"
	keyRoom     = "room"
)

// Load creates a Persistence backed by diskv under cfg.BasePath().
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) BasePath() string { return p.basePath }

// load unmarshals the record at key into out, leaving out at its default (and
// logging) when the record is missing or corrupt.
func (p *persistence) load(key string, out any) {
	val, err := p.d.Read(key)
	if err != nil {
		// Missing records are the normal first-run case; stay quiet.
		return
	}
	if err := json.Unmarshal(val, out); err != nil {
		fmt.Fprintf(os.Stderr, "store: %s: %v\n", key, err)
	}
}

func (p *persistence) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *persistence) Categories() []model.Category {
	var out []model.Category
	p.load(string(model.Categories), &out)
	if len(out) == 0 {
		return model.DefaultCategories()
	}
	return out
}

func (p *persistence) SaveCategories(v []model.Category) error {
	return p.save(string(model.Categories), v)
}

func (p *persistence) TimeBlocks() []model.TimeBlock {
	out := []model.TimeBlock{}
	p.load(string(model.TimeBlocks), &out)
	return out
}

func (p *persistence) SaveTimeBlocks(v []model.TimeBlock) error {
	return p.save(string(model.TimeBlocks), v)
}

func (p *persistence) Todos() []model.Todo {
	out := []model.Todo{}
	p.load(string(model.Todos), &out)
	return out
}

func (p *persistence) SaveTodos(v []model.Todo) error {
	return p.save(string(model.Todos), v)
}

func (p *persistence) Events() []model.Event {
	out := []model.Event{}
	p.load(string(model.Events), &out)
	return out
}

func (p *persistence) SaveEvents(v []model.Event) error {
	return p.save(string(model.Events), v)
}

func (p *persistence) WeeklyGoals() []model.WeeklyGoal {
	out := []model.WeeklyGoal{}
	p.load(string(model.WeeklyGoals), &out)
	return out
}

func (p *persistence) SaveWeeklyGoals(v []model.WeeklyGoal) error {
	return p.save(string(model.WeeklyGoals), v)
}

func (p *persistence) Identity() (model.User, bool) {
	var u model.User
	p.load(keyIdentity, &u)
	if u.ID == "" {
		return model.User{}, false
	}
	if u.NameLower == "" {
		u.NameLower = model.NormalizeName(u.Name)
	}
	return u, true
}

func (p *persistence) SaveIdentity(u model.User) error {
	return p.save(keyIdentity, u)
}

func (p *persistence) ClearIdentity() error {
	if !p.d.Has(keyIdentity) {
		return nil
	}
	return p.d.Erase(keyIdentity)
}

func (p *persistence) RoomCode() string {
	var code string
	p.load(keyRoom, &code)
	return strings.TrimSpace(code)
}

func (p *persistence) SaveRoomCode(code string) error {
	return p.save(keyRoom, code)
}

func (p *persistence) ClearRoomCode() error {
	if !p.d.Has(keyRoom) {
		return nil
	}
	return p.d.Erase(keyRoom)
}
