package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/haru/pkg/commands/options"
	"tableflip.dev/haru/pkg/runner/day"
)

func addDay(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show one day of the merged plan: events, blocks, todos.",
		Example: `
haru day
haru day --on="2026-3-2"
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
			r := &day.Show{Engine: e, Date: date, ShowID: io.ShowID}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	options.AddDateArgs(cmd, do)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
