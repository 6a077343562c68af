package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tableflip.dev/haru/pkg/engine"
	"tableflip.dev/haru/pkg/identity"
	"tableflip.dev/haru/pkg/remote"
	"tableflip.dev/haru/pkg/store"
	"tableflip.dev/haru/pkg/theme"
)

// eng is the engine built by setup for the current invocation. shutdown
// drains it before the process exits.
var eng *engine.Engine

// setup wires the engine for one command invocation: config, local store,
// the configured remote backend, identity, subscriptions.
func setup(ctx context.Context) (*engine.Engine, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	local, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}

	var rem remote.Store
	switch cfg.Remote() {
	case "off":
		rem = nil
	case "charm":
		cs, err := remote.OpenCharm("haru")
		if err != nil {
			// Degrade to local-only rather than blocking the planner.
			fmt.Fprintf(os.Stderr, "haru: charm unavailable, running local-only: %v\n", err)
		} else {
			rem = cs
		}
	default:
		fs, err := remote.OpenFile(filepath.Join(cfg.BasePath(), "shared"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "haru: shared store unavailable, running local-only: %v\n", err)
		} else {
			rem = fs
		}
	}

	ids := identity.NewManager(local, rem, theme.Lookup(cfg.Theme()))
	e := engine.New(local, rem, ids)
	if err := e.Start(ctx); err != nil {
		return nil, err
	}
	eng = e
	return e, nil
}

// shutdown closes the engine after a command runs. One-shot commands push
// their remote writes on goroutines; without the drain a delete that has not
// landed yet is lost when the process exits.
func shutdown() {
	if eng != nil {
		eng.Close()
	}
}
