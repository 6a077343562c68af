package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/haru/pkg/runner/account"
)

func addRegister(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "register NAME",
		Short: "Create a new identity on this device.",
		Example: `
haru register mina
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &account.Register{Engine: e, Name: args[0]}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	topLevel.AddCommand(cmd)
}

func addLogin(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "login NAME",
		Short: "Restore an existing identity. Names are case-insensitive.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &account.Login{Engine: e, Name: args[0]}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the identity. The room code stays with the device.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &account.Logout{Engine: e}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	topLevel.AddCommand(cmd)
}

func addWhoami(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity and room.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &account.Whoami{Engine: e}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	topLevel.AddCommand(cmd)
}
