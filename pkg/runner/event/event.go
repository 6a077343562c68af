// Package event holds the event verbs.
package event

import (
	"context"
	"fmt"

	"tableflip.dev/haru/pkg/engine"
	"tableflip.dev/haru/pkg/printers"
)

type Add struct {
	Engine *engine.Engine
	Date   string
	Title  string
	Time   string
	Note   string
}

func (n *Add) Do(ctx context.Context) error {
	ev, err := n.Engine.AddEvent(ctx, n.Date, n.Title, n.Time, n.Note)
	if err != nil {
		return err
	}
	fmt.Printf("event %q on %s", ev.Title, ev.Date)
	if ev.Time != "" {
		fmt.Printf(" at %s", ev.Time)
	}
	fmt.Println()
	return nil
}

// Remove deletes an event; blocks in its covered range are cleared, not
// deleted.
type Remove struct {
	Engine *engine.Engine
	ID     string
}

func (n *Remove) Do(ctx context.Context) error {
	return n.Engine.DeleteEvent(ctx, n.ID)
}

type List struct {
	Engine *engine.Engine
	Date   string
	ShowID bool
}

func (n *List) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{ShowID: n.ShowID}
	events := n.Engine.DayEvents(n.Date)
	pp.TitleWithCount(n.Date, len(events))
	for _, ev := range events {
		if n.ShowID {
			fmt.Printf("%-18s", ev.ID[:16])
		}
		when := ev.Time
		if when == "" {
			when = "--:--"
		}
		fmt.Printf("◆ %s  %s", when, ev.Title)
		if ev.OwnerName != "" {
			fmt.Printf("  (%s)", ev.OwnerName)
		}
		fmt.Println()
	}
	pp.NewLine()
	return nil
}
