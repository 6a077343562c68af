// Package goal holds the weekly-goal verbs.
package goal

import (
	"context"
	"fmt"

	"tableflip.dev/haru/pkg/engine"
	"tableflip.dev/haru/pkg/printers"
	"tableflip.dev/haru/pkg/timeutil"
)

type Add struct {
	Engine *engine.Engine
	Date   string
	Text   string
}

func (n *Add) Do(ctx context.Context) error {
	g, err := n.Engine.AddGoal(ctx, n.Date, n.Text)
	if err != nil {
		return err
	}
	goals, err := n.Engine.WeekGoals(g.WeekStart)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	pp.Goals(g.WeekStart, goals)
	return nil
}

type Toggle struct {
	Engine *engine.Engine
	ID     string
}

func (n *Toggle) Do(ctx context.Context) error {
	g, err := n.Engine.ToggleGoal(ctx, n.ID)
	if err != nil {
		return err
	}
	state := "open"
	if g.Completed {
		state = "done"
	}
	fmt.Printf("%s: %s\n", g.Text, state)
	return nil
}

type Remove struct {
	Engine *engine.Engine
	ID     string
}

func (n *Remove) Do(ctx context.Context) error {
	return n.Engine.DeleteGoal(ctx, n.ID)
}

// Plan copies a goal onto a specific day as a todo.
type Plan struct {
	Engine *engine.Engine
	ID     string
	Date   string
}

func (n *Plan) Do(ctx context.Context) error {
	todo, err := n.Engine.PlanGoal(ctx, n.ID, n.Date)
	if err != nil {
		return err
	}
	fmt.Printf("planned %q on %s\n", todo.Text, todo.Date)
	return nil
}

type List struct {
	Engine *engine.Engine
	Date   string
	ShowID bool
}

func (n *List) Do(ctx context.Context) error {
	weekStart, err := timeutil.WeekStart(n.Date)
	if err != nil {
		return err
	}
	goals, err := n.Engine.WeekGoals(n.Date)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.Goals(weekStart, goals)
	return nil
}
