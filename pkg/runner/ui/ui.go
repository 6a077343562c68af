// Package ui opens the interactive day view.
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/haru/pkg/engine"
	"tableflip.dev/haru/pkg/ui/day"
)

type UI struct {
	Engine *engine.Engine
	Date   string
}

func (n *UI) Do(ctx context.Context) error {
	p := tea.NewProgram(day.New(ctx, n.Engine, n.Date), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
