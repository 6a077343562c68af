package options

import (
	"github.com/spf13/cobra"
)

// IDOptions toggles record id display so users can address entries in
// toggle/remove commands.
type IDOptions struct {
	ShowID bool
}

// AddShowIDArgs wires the --id flag on the provided command.
func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVar(&o.ShowID, "id", false,
		"Show record ids.")
}
