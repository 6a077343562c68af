package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/haru/pkg/commands/options"
)

var (
	oo = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "haru",
		Short: base.Wrap80("A day planner for one person, or a shared one for a few."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Finalizers run whether or not the command errored, so every invocation
	// drains its in-flight remote writes before exiting.
	cobra.OnFinalize(shutdown)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addRegister(topLevel)
	addLogin(topLevel)
	addLogout(topLevel)
	addWhoami(topLevel)
	addRoom(topLevel)
	addDay(topLevel)
	addWeek(topLevel)
	addBlock(topLevel)
	addTodo(topLevel)
	addGoal(topLevel)
	addEvent(topLevel)
	addQuick(topLevel)
	addCategory(topLevel)
	addUI(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
}
