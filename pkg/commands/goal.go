package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/haru/pkg/commands/options"
	"tableflip.dev/haru/pkg/runner/goal"
)

func addGoal(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage weekly goals. Weeks start on Monday.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addDo := &options.DateOptions{}
	add := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a goal for the week containing the given day.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := addDo.GetOn()
			if err != nil {
				return err
			}
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &goal.Add{Engine: e, Date: date, Text: strings.Join(args, " ")}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	options.AddDateArgs(add, addDo)

	done := &cobra.Command{
		Use:   "done ID",
		Short: "Toggle a goal's completion.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &goal.Toggle{Engine: e, ID: args[0]}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a goal.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &goal.Remove{Engine: e, ID: args[0]}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	planDo := &options.DateOptions{}
	plan := &cobra.Command{
		Use:   "plan ID",
		Short: "Copy a goal onto a day as a todo.",
		Example: `
haru goal plan 4fa1c09e --on="3/2"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := planDo.GetOn()
			if err != nil {
				return err
			}
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &goal.Plan{Engine: e, ID: args[0], Date: date}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	options.AddDateArgs(plan, planDo)

	listDo := &options.DateOptions{}
	listIO := &options.IDOptions{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List the week's goals.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := listDo.GetOn()
			if err != nil {
				return err
			}
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &goal.List{Engine: e, Date: date, ShowID: listIO.ShowID}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	options.AddDateArgs(list, listDo)
	options.AddShowIDArgs(list, listIO)

	cmd.AddCommand(add, done, rm, plan, list)
	topLevel.AddCommand(cmd)
}
