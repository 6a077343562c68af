// Package account holds the identity verbs.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/haru/pkg/engine"
	"tableflip.dev/haru/pkg/identity"
)

type Register struct {
	Engine *engine.Engine
	Name   string
}

func (n *Register) Do(ctx context.Context) error {
	u, err := n.Engine.Register(ctx, n.Name)
	if errors.Is(err, identity.ErrDuplicateName) {
		return fmt.Errorf("the name %q is taken, pick another", n.Name)
	}
	if err != nil {
		return err
	}
	fmt.Printf("registered %s ", u.Name)
	_, _ = color.New(color.Faint).Printf("(%s)\n", u.Color)
	return nil
}

type Login struct {
	Engine *engine.Engine
	Name   string
}

func (n *Login) Do(ctx context.Context) error {
	u, err := n.Engine.Login(ctx, n.Name)
	if errors.Is(err, identity.ErrNotFound) {
		return fmt.Errorf("no account named %q, register first", n.Name)
	}
	if err != nil {
		return err
	}
	fmt.Printf("welcome back, %s\n", u.Name)
	if code := n.Engine.RoomCode(); code != "" {
		_, _ = color.New(color.Faint).Printf("rejoined room %s\n", code)
	}
	return nil
}

type Logout struct {
	Engine *engine.Engine
}

func (n *Logout) Do(ctx context.Context) error {
	n.Engine.Logout()
	fmt.Println("logged out")
	if code := n.Engine.RoomCode(); code != "" {
		// Kept on purpose: this device stays affiliated with its shared
		// calendar across identity switches.
		_, _ = color.New(color.Faint).Printf("room %s kept for next login\n", code)
	}
	return nil
}

type Whoami struct {
	Engine *engine.Engine
}

func (n *Whoami) Do(ctx context.Context) error {
	u, ok := n.Engine.Identity()
	if !ok {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s ", u.Name)
	_, _ = color.New(color.Faint).Printf("(%s)\n", u.Color)
	if code := n.Engine.RoomCode(); code != "" {
		fmt.Printf("room: %s\n", code)
	}
	return nil
}
