// Package week renders the weekly goals and a day-by-day summary.
package week

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/haru/pkg/engine"
	"tableflip.dev/haru/pkg/printers"
	"tableflip.dev/haru/pkg/timeutil"
)

type Show struct {
	Engine *engine.Engine
	Date   string
	ShowID bool
}

func (n *Show) Do(ctx context.Context) error {
	weekStart, grid, err := n.Engine.WeekGrid(n.Date)
	if err != nil {
		return err
	}
	goals, err := n.Engine.WeekGoals(n.Date)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.Goals(weekStart, goals)

	faint := color.New(color.Faint)
	date := weekStart
	for _, day := range grid {
		blocks := 0
		for _, b := range day {
			if !b.Empty() {
				blocks++
			}
		}
		todos := n.Engine.DayTodos(date)
		open := 0
		for _, t := range todos {
			if !t.Completed {
				open++
			}
		}
		events := n.Engine.DayEvents(date)
		fmt.Printf("%s  ", date)
		_, _ = faint.Printf("%2d blocks  %2d events  %d/%d todos\n", blocks, len(events), open, len(todos))
		if date, err = timeutil.AddDays(date, 1); err != nil {
			return err
		}
	}
	fmt.Println()
	return nil
}
