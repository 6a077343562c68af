// Package block holds the time-slot verbs.
package block

import (
	"context"
	"fmt"

	"tableflip.dev/haru/pkg/engine"
	"tableflip.dev/haru/pkg/timeutil"
)

type Set struct {
	Engine   *engine.Engine
	Date     string
	Slot     int
	Category string
	Note     string
}

func (n *Set) Do(ctx context.Context) error {
	b, err := n.Engine.SetTimeBlock(ctx, n.Date, n.Slot, n.Category, n.Note)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s set\n", b.Date, timeutil.FormatSlot(b.Slot))
	return nil
}

type Clear struct {
	Engine *engine.Engine
	Date   string
	Slot   int
}

func (n *Clear) Do(ctx context.Context) error {
	if err := n.Engine.DeleteTimeBlock(ctx, n.Date, n.Slot); err != nil {
		return err
	}
	fmt.Printf("%s %s cleared\n", n.Date, timeutil.FormatSlot(n.Slot))
	return nil
}
