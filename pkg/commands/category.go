package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/haru/pkg/runner/category"
)

func addCategory(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage block categories.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	color := ""
	icon := ""
	add := &cobra.Command{
		Use:   "add NAME...",
		Short: "Add a category.",
		Example: `
haru category add 독서 --icon="📖" --color="#B5838D"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &category.Add{Engine: e, Name: strings.Join(args, " "), Color: color, Icon: icon}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	add.Flags().StringVar(&color, "color", "", "Hex color for the category.")
	add.Flags().StringVar(&icon, "icon", "", "Icon for the category.")

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a category. Blocks that used it keep their note.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &category.Remove{Engine: e, ID: args[0]}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			r := &category.List{Engine: e}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	cmd.AddCommand(add, rm, list)
	topLevel.AddCommand(cmd)
}
