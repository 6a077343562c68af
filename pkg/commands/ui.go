package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/haru/pkg/commands/options"
	"tableflip.dev/haru/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	do := &options.DateOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive day view.",
		Example: `
haru ui
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := do.GetOn()
			if err != nil {
				return err
			}
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &ui.UI{Engine: e, Date: date}
			return r.Do(cmd.Context())
		},
	}
	options.AddDateArgs(cmd, do)
	topLevel.AddCommand(cmd)
}
