// Package printers renders planner data for the terminal.
package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/haru/pkg/model"
	"tableflip.dev/haru/pkg/timeutil"
)

type PrettyPrint struct {
	ShowID bool
}

var spacing = strings.Repeat(" ", len("171dff69f8b99dca  "))

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)
	switch count {
	case 1:
		_, _ = c.Println(" entry")
	default:
		_, _ = c.Println(" entries")
	}
}

func (pp *PrettyPrint) id(id string) {
	if !pp.ShowID {
		return
	}
	n := len(id)
	if n > 16 {
		n = 16
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	_, _ = y.Print(id[:n])
	_, _ = y.Print(strings.Repeat(" ", len(spacing)-n))
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Print(" none\n\n")
}

// Day prints the non-empty slots of one date's merged grid, events first.
// Empty slots are elided.
func (pp *PrettyPrint) Day(date string, blocks []model.TimeBlock, events []model.Event, lookup func(string) (model.Category, bool)) {
	pp.Title(date)

	e := color.New(color.FgHiMagenta)
	faint := color.New(color.Faint)
	for _, ev := range events {
		when := ev.Time
		if when == "" {
			when = "--:--"
		}
		pp.id(ev.ID)
		_, _ = e.Printf("◆ %s  %s", when, ev.Title)
		if ev.Note != "" {
			_, _ = faint.Printf("  (%s)", ev.Note)
		}
		fmt.Println()
	}
	if len(events) > 0 {
		fmt.Println()
	}

	printed := 0
	t := color.New()
	for _, b := range blocks {
		if b.Empty() {
			continue
		}
		label := ""
		if cat, ok := lookup(b.CategoryID); ok {
			label = fmt.Sprintf("%s %s", cat.Icon, cat.Name)
		}
		pp.id(b.ID)
		_, _ = faint.Printf("%s ", timeutil.FormatSlot(b.Slot))
		_, _ = t.Printf("%-12s %s", label, b.Note)
		if b.OwnerName != "" {
			_, _ = faint.Printf("  %s", b.OwnerName)
		}
		fmt.Println()
		printed++
	}
	if printed == 0 {
		pp.none()
		return
	}
	_, _ = t.Println("")
}

// Todos prints a date's todos in order.
func (pp *PrettyPrint) Todos(title string, todos []model.Todo) {
	pp.TitleWithCount(title, len(todos))
	if len(todos) == 0 {
		pp.none()
		return
	}
	t := color.New()
	done := color.New(color.Faint, color.CrossedOut)
	for _, todo := range todos {
		pp.id(todo.ID)
		if todo.Completed {
			_, _ = done.Printf("✗ %s\n", todo.Text)
		} else {
			_, _ = t.Printf("· %s\n", todo.Text)
		}
	}
	_, _ = t.Println("")
}

// Goals prints a week's goals in order.
func (pp *PrettyPrint) Goals(weekStart string, goals []model.WeeklyGoal) {
	pp.TitleWithCount(fmt.Sprintf("week of %s", weekStart), len(goals))
	if len(goals) == 0 {
		pp.none()
		return
	}
	t := color.New()
	done := color.New(color.Faint, color.CrossedOut)
	for _, g := range goals {
		pp.id(g.ID)
		if g.Completed {
			_, _ = done.Printf("✗ %s\n", g.Text)
		} else {
			_, _ = t.Printf("· %s\n", g.Text)
		}
	}
	_, _ = t.Println("")
}
