// Package category holds the category verbs.
package category

import (
	"context"
	"fmt"

	"tableflip.dev/haru/pkg/engine"
	"tableflip.dev/haru/pkg/printers"
)

type Add struct {
	Engine *engine.Engine
	Name   string
	Color  string
	Icon   string
}

func (n *Add) Do(ctx context.Context) error {
	c, err := n.Engine.AddCategory(ctx, n.Name, n.Color, n.Icon)
	if err != nil {
		return err
	}
	fmt.Printf("added category %s %s\n", c.Icon, c.Name)
	return nil
}

type Remove struct {
	Engine *engine.Engine
	ID     string
}

func (n *Remove) Do(ctx context.Context) error {
	return n.Engine.DeleteCategory(ctx, n.ID)
}

type List struct {
	Engine *engine.Engine
}

func (n *List) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{}
	pp.Categories(n.Engine.Categories())
	return nil
}
