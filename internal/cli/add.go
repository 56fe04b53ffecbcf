package cli

import (
	"github.com/spf13/cobra"
)

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "add <name> <price>",
		Short:   "Create a product",
		Example: `  productctl add "Desk lamp" 24.90`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := a.newController()
			ctrl.SetDraft(args[0], args[1])

			err := ctrl.AddProduct(cmd.Context())
			printBanner(cmd.OutOrStdout(), ctrl.Store().Snapshot())
			if err != nil {
				return reported(err)
			}
			return nil
		},
	}
}
