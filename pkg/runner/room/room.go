// Package room holds the room membership verbs.
package room

import (
	"context"
	"fmt"

	"tableflip.dev/haru/pkg/engine"
	"tableflip.dev/haru/pkg/printers"
)

type Create struct {
	Engine *engine.Engine
}

func (n *Create) Do(ctx context.Context) error {
	code, err := n.Engine.CreateRoom(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("room created: %s\n", code)
	fmt.Println("share this code; others join with `haru room join " + code + "`")
	return nil
}

type Join struct {
	Engine *engine.Engine
	Code   string
}

func (n *Join) Do(ctx context.Context) error {
	joined, err := n.Engine.JoinRoom(ctx, n.Code)
	if err != nil {
		return err
	}
	if !joined {
		fmt.Printf("no room found for %q, check the code\n", n.Code)
		return nil
	}
	fmt.Printf("joined room %s\n", n.Engine.RoomCode())
	return nil
}

type Leave struct {
	Engine *engine.Engine
}

func (n *Leave) Do(ctx context.Context) error {
	if n.Engine.RoomCode() == "" {
		fmt.Println("not in a room")
		return nil
	}
	if err := n.Engine.LeaveRoom(ctx); err != nil {
		return err
	}
	fmt.Println("left the room")
	return nil
}

type Members struct {
	Engine *engine.Engine
}

func (n *Members) Do(ctx context.Context) error {
	code := n.Engine.RoomCode()
	if code == "" {
		fmt.Println("not in a room")
		return nil
	}
	selfID := ""
	if u, ok := n.Engine.Identity(); ok {
		selfID = u.ID
	}
	pp := printers.PrettyPrint{}
	pp.Members(code, n.Engine.Members(), selfID)
	return nil
}
