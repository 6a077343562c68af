// Package quick holds the free-text schedule verb.
package quick

import (
	"context"
	"fmt"

	"tableflip.dev/haru/pkg/engine"
)

// Add parses a "start-end title" instruction and schedules it: one time
// block per half-hour slot plus one event for the range.
type Add struct {
	Engine *engine.Engine
	Date   string
	Input  string
}

func (n *Add) Do(ctx context.Context) error {
	blocks, ev, err := n.Engine.QuickAdd(ctx, n.Date, n.Input)
	if err != nil {
		return err
	}
	fmt.Printf("scheduled %q %s on %s (%d slots)\n", ev.Title, ev.Time, ev.Date, len(blocks))
	return nil
}
