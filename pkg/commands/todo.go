package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/haru/pkg/commands/options"
	"tableflip.dev/haru/pkg/runner/todo"
)

func addTodo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage the day's todos. Todos are personal, never shared.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addDo := &options.DateOptions{}
	add := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a todo at the tail of the day's list.",
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
			r := &todo.Add{Engine: e, Date: date, Text: strings.Join(args, " ")}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	options.AddDateArgs(add, addDo)

	done := &cobra.Command{
		Use:   "done ID",
		Short: "Toggle a todo's completion.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &todo.Toggle{Engine: e, ID: args[0]}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	up := &cobra.Command{
		Use:   "up ID",
		Short: "Move a todo one position earlier.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &todo.Move{Engine: e, ID: args[0], Delta: -1}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	down := &cobra.Command{
		Use:   "down ID",
		Short: "Move a todo one position later.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &todo.Move{Engine: e, ID: args[0], Delta: 1}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a todo.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &todo.Remove{Engine: e, ID: args[0]}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	listDo := &options.DateOptions{}
	listIO := &options.IDOptions{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List the day's todos.",
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
			r := &todo.List{Engine: e, Date: date, ShowID: listIO.ShowID}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	options.AddDateArgs(list, listDo)
	options.AddShowIDArgs(list, listIO)

	cmd.AddCommand(add, done, up, down, rm, list)
	topLevel.AddCommand(cmd)
}
