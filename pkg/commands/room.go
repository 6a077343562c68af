package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/haru/pkg/runner/room"
)

func addRoom(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Create, join, or leave a shared room.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a room and join it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &room.Create{Engine: e}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	join := &cobra.Command{
		Use:   "join CODE",
		Short: "Join an existing room by its 6-character code.",
		Example: `
haru room join KWX3RD
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &room.Join{Engine: e, Code: args[0]}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	leave := &cobra.Command{
		Use:   "leave",
		Short: "Leave the current room.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &room.Leave{Engine: e}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	members := &cobra.Command{
		Use:   "members",
		Short: "List the room's members.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &room.Members{Engine: e}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	cmd.AddCommand(create, join, leave, members)
	topLevel.AddCommand(cmd)
}
