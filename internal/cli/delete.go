package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abgdnv/productboard/internal/product/service"
	"github.com/abgdnv/productboard/internal/product/ui"
	"github.com/spf13/cobra"
)

func newDeleteCommand(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a product after confirmation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			out := cmd.OutOrStdout()
			ctrl := a.newController()
			if err := ctrl.Load(cmd.Context()); err != nil {
				printBanner(out, ctrl.Store().Snapshot())
				return reported(err)
			}

			ctrl.ConfirmDelete(findProduct(ctrl.Store().Snapshot(), id))
			if !yes {
				printPrompt(out, ctrl.Store().Snapshot())
				if !confirmed(bufio.NewReader(cmd.InOrStdin())) {
					ctrl.CancelDelete()
					_, _ = fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			err = ctrl.DeleteConfirmed(cmd.Context())
			printBanner(out, ctrl.Store().Snapshot())
			if err != nil {
				return reported(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// findProduct looks id up in the loaded list. Unknown ids are still staged
// so the API can report them.
func findProduct(st ui.State, id int64) service.ProductDto {
	for _, p := range st.Products {
		if p.ID == id {
			return p
		}
	}
	return service.ProductDto{ID: id}
}

func printPrompt(w io.Writer, st ui.State) {
	if st.PendingDelete == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "Delete %q (#%d)? [y/N] ", st.PendingDelete.Name, st.PendingDelete.ID)
}

func confirmed(r *bufio.Reader) bool {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return isYes(line)
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
