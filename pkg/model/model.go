// Package model defines the planner entities shared by the store, the sync
// engine, and the UIs.
package model

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Collection names the five persisted entity collections. The same names key
// the local store and the remote store paths.
type Collection string

const (
	Categories  Collection = "categories"
	TimeBlocks  Collection = "timeBlocks"
	Todos       Collection = "todos"
	Events      Collection = "events"
	WeeklyGoals Collection = "weeklyGoals"
)

// SharedCollections are the types merged across room members. Todos and
// weekly goals stay personal and are never merged from others.
func SharedCollections() []Collection {
	return []Collection{TimeBlocks, Events}
}

// Owner stamps a record with the acting user's identity. The three fields are
// always set together from the same User.
type Owner struct {
	OwnerID    string `json:"ownerId,omitempty"`
	OwnerName  string `json:"ownerName,omitempty"`
	OwnerColor string `json:"ownerColor,omitempty"`
}

// Stamp returns the owner fields for u.
func Stamp(u User) Owner {
	return Owner{OwnerID: u.ID, OwnerName: u.Name, OwnerColor: u.Color}
}

// User is a durable per-device identity.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NameLower string `json:"nameLower"`
	Color     string `json:"color"`
}

// NormalizeName is the canonical form used for name uniqueness checks.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Category is a user-editable label for time blocks.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// TimeBlock is one 30-minute slot of a day. Empty slots are synthesized on
// read and only stored once they carry a note or a category.
type TimeBlock struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Slot       int    `json:"hour"`
	CategoryID string `json:"categoryId,omitempty"`
	Note       string `json:"note,omitempty"`
	Owner
}

// Empty reports whether the block carries no content and need not be stored.
func (b TimeBlock) Empty() bool {
	return b.CategoryID == "" && b.Note == ""
}

// Todo is a per-date task. Order is a stable sort key within the date.
type Todo struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Order     int    `json:"order"`
	Owner
}

// Event is a month-view marker, optionally tied to a time range rendered as
// "HH:MM~HH:MM".
type Event struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Title string `json:"title"`
	Time  string `json:"time,omitempty"`
	Note  string `json:"note,omitempty"`
	Owner
}

// WeeklyGoal is a per-week task scoped by the Monday of its week.
type WeeklyGoal struct {
	ID        string `json:"id"`
	WeekStart string `json:"weekStart"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Order     int    `json:"order"`
	Owner
}

// NewID returns a fresh globally unique entity id.
func NewID() string {
	return uuid.NewString()
}

// DefaultCategories is the builtin set a fresh store starts with.
func DefaultCategories() []Category {
	return []Category{
		{ID: "sleep", Name: "수면", Color: "#8b9dc3", Icon: "🌙"},
		{ID: "work", Name: "업무", Color: "#e98973", Icon: "💼"},
		{ID: "study", Name: "공부", Color: "#88b04b", Icon: "📚"},
		{ID: "exercise", Name: "운동", Color: "#f7cac9", Icon: "💪"},
		{ID: "meal", Name: "식사", Color: "#ffcc5c", Icon: "🍚"},
		{ID: "rest", Name: "휴식", Color: "#96ceb4", Icon: "☕"},
		{ID: "hobby", Name: "취미", Color: "#c38d9e", Icon: "🎨"},
		{ID: "etc", Name: "기타", Color: "#b8b8b8", Icon: "📌"},
	}
}

// BlocksOn filters blocks to the given date.
func BlocksOn(blocks []TimeBlock, date string) []TimeBlock {
	out := make([]TimeBlock, 0)
	for _, b := range blocks {
		if b.Date == date {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// TodosOn filters todos to the given date, sorted by order then id so equal
// orders still yield a stable total order.
func TodosOn(todos []Todo, date string) []Todo {
	out := make([]Todo, 0)
	for _, t := range todos {
		if t.Date == date {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// EventsOn filters events to the given date.
func EventsOn(events []Event, date string) []Event {
	out := make([]Event, 0)
	for _, e := range events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// GoalsFor filters goals to the given week start, sorted by order then id.
func GoalsFor(goals []WeeklyGoal, weekStart string) []WeeklyGoal {
	out := make([]WeeklyGoal, 0)
	for _, g := range goals {
		if g.WeekStart == weekStart {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// NextOrder returns a tail order value strictly greater than every existing
// order in items.
func NextOrder(orders []int) int {
	next := 0
	for _, o := range orders {
		if o >= next {
			next = o + 1
		}
	}
	return next
}
