// Package day renders one date of the merged plan.
package day

import (
	"context"

	"tableflip.dev/haru/pkg/engine"
	"tableflip.dev/haru/pkg/printers"
)

type Show struct {
	Engine *engine.Engine
	Date   string
	ShowID bool
}

func (n *Show) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.Day(n.Date, n.Engine.DayBlocks(n.Date), n.Engine.DayEvents(n.Date), n.Engine.Category)
	pp.Todos("todo", n.Engine.DayTodos(n.Date))
	return nil
}
