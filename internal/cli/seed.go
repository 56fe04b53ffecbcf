package cli

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abgdnv/productboard/internal/product/seed"
	"github.com/spf13/cobra"
)

func newSeedCommand(a *app) *cobra.Command {
	var (
		count  int
		rngKey uint64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create sample products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("count must be positive, got %d", count)
			}
			if !cmd.Flags().Changed("seed") {
				rngKey = uint64(time.Now().UnixNano())
			}
			rng := rand.New(rand.NewPCG(rngKey, rngKey>>1))

			created, err := seed.Run(cmd.Context(), a.client, rng, count)
			if err != nil {
				a.logger.ErrorContext(cmd.Context(), "Failed to seed products", "error", err)
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range created {
				_, _ = fmt.Fprintf(out, "#%d\t%s\t%s\n", p.ID, p.Name, p.Price.StringFixed(2))
			}
			_, _ = fmt.Fprintf(out, "Seeded %d products.\n", len(created))
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", seed.DefaultCount, "number of products to create")
	cmd.Flags().Uint64Var(&rngKey, "seed", 0, "random seed for repeatable names and prices")
	return cmd
}
