package ui

import (
	"cmp"
	"slices"
	"strings"

	"github.com/abgdnv/productboard/internal/product/service"
)

// Derive filters products by a case-insensitive name substring and sorts the
// result by field. It returns a new slice and never modifies products.
// Ties keep no particular order.
func Derive(products []service.ProductDto, search string, field SortField, desc bool) []service.ProductDto {
	needle := strings.ToLower(search)
	out := make([]service.ProductDto, 0, len(products))
	for _, p := range products {
		if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}

	compare := comparator(field)
	slices.SortFunc(out, func(a, b service.ProductDto) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}

func comparator(field SortField) func(a, b service.ProductDto) int {
	switch field {
	case SortID:
		return func(a, b service.ProductDto) int { return cmp.Compare(a.ID, b.ID) }
	case SortName:
		return func(a, b service.ProductDto) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortPrice:
		return func(a, b service.ProductDto) int { return a.Price.Cmp(b.Price) }
	case SortUpdatedAt:
		return func(a, b service.ProductDto) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	default:
		return func(a, b service.ProductDto) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}
