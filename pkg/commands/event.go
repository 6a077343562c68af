package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/haru/pkg/commands/options"
	"tableflip.dev/haru/pkg/runner/event"
)

func addEvent(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage events. Events in a room are visible to everyone.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addDo := &options.DateOptions{}
	when := ""
	note := ""
	add := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add an event. --time takes \"HH:MM~HH:MM\" or free text.",
		Example: `
haru event add 치과 --time="10:00~11:00" --on="3/2"
haru event add 휴가 --time="종일"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := addDo.GetOn()
			if err != nil {
				return err
			}
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &event.Add{Engine: e, Date: date, Title: strings.Join(args, " "), Time: when, Note: note}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	add.Flags().StringVar(&when, "time", "", "Time range or free text.")
	add.Flags().StringVar(&note, "note", "", "Note for the event.")
	options.AddDateArgs(add, addDo)

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete an event and clear the blocks in its range.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &event.Remove{Engine: e, ID: args[0]}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	listDo := &options.DateOptions{}
	listIO := &options.IDOptions{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List the day's events, yours and the room's.",
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
			r := &event.List{Engine: e, Date: date, ShowID: listIO.ShowID}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	options.AddDateArgs(list, listDo)
	options.AddShowIDArgs(list, listIO)

	cmd.AddCommand(add, rm, list)
	topLevel.AddCommand(cmd)
}
