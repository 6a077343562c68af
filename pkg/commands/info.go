package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/haru/pkg/runner/info"
	"tableflip.dev/haru/pkg/store"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about where the planner's data lives.",
		Example: `
haru info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &info.Info{Engine: e, Config: cfg}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	topLevel.AddCommand(cmd)
}
