package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/haru/pkg/commands/options"
	"tableflip.dev/haru/pkg/runner/block"
)

func addBlock(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	category := ""
	note := ""

	cmd := &cobra.Command{
		Use:   "block SLOT",
		Short: "Set or clear a 30-minute slot (0-47; 20 is 10:00).",
		Example: `
haru block 20 --note="점심" --category=meal
haru block 20 --clear
`,
		Args: cobra.ExactArgs(1),
	}

	clear := false
	cmd.Flags().StringVar(&note, "note", "", "Note for the slot.")
	cmd.Flags().StringVar(&category, "category", "", "Category id for the slot.")
	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the slot's row entirely.")
	options.AddDateArgs(cmd, do)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		slot, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		date, err := do.GetOn()
		if err != nil {
			return err
		}
		e, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		if clear {
			r := &block.Clear{Engine: e, Date: date, Slot: slot}
			return oo.HandleError(r.Do(cmd.Context()))
		}
		r := &block.Set{Engine: e, Date: date, Slot: slot, Category: category, Note: note}
		return oo.HandleError(r.Do(cmd.Context()))
	}
	topLevel.AddCommand(cmd)
}
