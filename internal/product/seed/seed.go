// Package seed fills an empty product board with sample products.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/abgdnv/productboard/internal/product/service"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultCount = 10
	// parallel caps concurrent create requests.
	parallel = 4

	minCents = 10_00
	maxCents = 1000_00
)

var words = []string{
	"alpha", "amber", "anchor", "aqua", "arc", "atlas", "aurora", "basic", "beacon", "bolt",
	"breeze", "bright", "canyon", "carbon", "cedar", "classic", "cloud", "cobalt", "comet", "compact",
	"coral", "crest", "crystal", "delta", "drift", "echo", "ember", "falcon", "fern", "flux",
	"forge", "frost", "glide", "granite", "harbor", "horizon", "ion", "ivory", "jade", "lunar",
	"maple", "matrix", "meadow", "metro", "nova", "onyx", "orbit", "pebble", "pixel", "prime",
	"pulse", "quartz", "radiant", "ridge", "river", "sage", "sierra", "solar", "spark", "summit",
	"swift", "terra", "timber", "ultra", "vertex", "vivid", "wave", "zen", "zephyr", "zinc",
}

// Creator stores one product. *client.Client implements it.
type Creator interface {
	Create(ctx context.Context, name, price string) (*service.ProductDto, string, error)
}

// Product is a generated name and price.
type Product struct {
	Name  string
	Price decimal.Decimal
}

// Generate returns n products with two-word names and prices between 10.00 and 1000.00.
func Generate(rng *rand.Rand, n int) []Product {
	out := make([]Product, n)
	for i := range out {
		out[i] = Product{
			Name:  words[rng.IntN(len(words))] + " " + words[rng.IntN(len(words))],
			Price: decimal.New(minCents+rng.Int64N(maxCents-minCents+1), -2),
		}
	}
	return out
}

// Run creates n generated products through c and returns them in generation order.
// It stops at the first failure.
func Run(ctx context.Context, c Creator, rng *rand.Rand, n int) ([]service.ProductDto, error) {
	products := Generate(rng, n)
	created := make([]service.ProductDto, len(products))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, p := range products {
		g.Go(func() error {
			dto, _, err := c.Create(gCtx, p.Name, p.Price.StringFixed(2))
			if err != nil {
				return fmt.Errorf("failed to seed product %q: %w", p.Name, err)
			}
			created[i] = *dto
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return created, nil
}
