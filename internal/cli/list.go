package cli

import (
	"github.com/abgdnv/productboard/internal/product/ui"
	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	var (
		search string
		sortBy string
		desc   bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List products",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := a.newController()
			if cmd.Flags().Changed("sort") || cmd.Flags().Changed("desc") {
				field, err := ui.ParseSortField(sortBy)
				if err != nil {
					return err
				}
				sortTo(ctrl, field, desc)
			}
			ctrl.SetSearch(search)

			err := ctrl.Load(cmd.Context())
			if rerr := ui.Render(cmd.OutOrStdout(), ctrl.Store().Snapshot()); rerr != nil {
				return rerr
			}
			if err != nil {
				return reported(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "show only products whose name contains this text")
	cmd.Flags().StringVar(&sortBy, "sort", string(ui.SortCreatedAt), "sort column: id, name, price, created_at or updated_at")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

// sortTo drives the header toggle until field is sorted in the wanted direction.
func sortTo(ctrl *ui.Controller, field ui.SortField, desc bool) {
	st := ctrl.Store().Snapshot()
	if st.SortField == field && st.SortDesc == desc {
		return
	}
	ctrl.SortBy(field)
	if ctrl.Store().Snapshot().SortDesc != desc {
		ctrl.SortBy(field)
	}
}
