// Package info reports where the planner keeps its data and who is
// signed in.
package info

import (
	"context"
	"fmt"

	"tableflip.dev/haru/pkg/engine"
	"tableflip.dev/haru/pkg/store"
)

type Info struct {
	Engine *engine.Engine
	Config store.Config
}

func (n *Info) Do(ctx context.Context) error {
	fmt.Printf("path:   %s\n", n.Config.BasePath())
	fmt.Printf("remote: %s\n", n.Config.Remote())
	fmt.Printf("theme:  %s\n", n.Config.Theme())

	if u, ok := n.Engine.Identity(); ok {
		fmt.Printf("user:   %s (%s)\n", u.Name, u.ID[:8])
	} else {
		fmt.Println("user:   not signed in")
	}
	if code := n.Engine.RoomCode(); code != "" {
		fmt.Printf("room:   %s\n", code)
	} else {
		fmt.Println("room:   none")
	}
	return nil
}
