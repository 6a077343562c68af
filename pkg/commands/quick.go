package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/haru/pkg/commands/options"
	"tableflip.dev/haru/pkg/runner/quick"
)

func addQuick(topLevel *cobra.Command) {
	do := &options.DateOptions{}

	cmd := &cobra.Command{
		Use:   "quick INPUT...",
		Short: "Schedule from free text: \"19.5-20.5 수영\" fills the slots and adds an event.",
		Example: `
haru quick 19.5-20.5 수영
haru quick 10-11 점심 --on="3/2"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := do.GetOn()
			if err != nil {
				return err
			}
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &quick.Add{Engine: e, Date: date, Input: strings.Join(args, " ")}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	options.AddDateArgs(cmd, do)
	topLevel.AddCommand(cmd)
}
