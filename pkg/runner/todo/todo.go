// Package todo holds the todo verbs.
package todo

import (
	"context"
	"fmt"

	"tableflip.dev/haru/pkg/engine"
	"tableflip.dev/haru/pkg/printers"
)

type Add struct {
	Engine *engine.Engine
	Date   string
	Text   string
}

func (n *Add) Do(ctx context.Context) error {
	todo, err := n.Engine.AddTodo(ctx, n.Date, n.Text)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	pp.Todos(todo.Date, n.Engine.DayTodos(todo.Date))
	return nil
}

type Toggle struct {
	Engine *engine.Engine
	ID     string
}

func (n *Toggle) Do(ctx context.Context) error {
	todo, err := n.Engine.ToggleTodo(ctx, n.ID)
	if err != nil {
		return err
	}
	state := "open"
	if todo.Completed {
		state = "done"
	}
	fmt.Printf("%s: %s\n", todo.Text, state)
	return nil
}

type Move struct {
	Engine *engine.Engine
	ID     string
	Delta  int
}

func (n *Move) Do(ctx context.Context) error {
	return n.Engine.MoveTodo(ctx, n.ID, n.Delta)
}

type Remove struct {
	Engine *engine.Engine
	ID     string
}

func (n *Remove) Do(ctx context.Context) error {
	return n.Engine.DeleteTodo(ctx, n.ID)
}

type List struct {
	Engine *engine.Engine
	Date   string
	ShowID bool
}

func (n *List) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.Todos(n.Date, n.Engine.DayTodos(n.Date))
	return nil
}
