package shop

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/AmmannChristian/go-storefront/catalog"
)

// SortOption names an ordering of a product list.
type SortOption string

const (
	SortNameAsc  SortOption = "name_asc"
	SortNameDesc SortOption = "name_desc"
)

// AllCategories selects every category.
const AllCategories = "all"

// Query bundles the gift shop's list controls.
type Query struct {
	Category string
	Search   string
	Sort     SortOption
}

// Apply filters by category, then by search term, then sorts.
// The input slice is not modified.
func (q Query) Apply(products []catalog.Product) []catalog.Product {
	out := FilterByCategory(products, q.Category)
	out = Search(out, q.Search)
	return Sort(out, q.Sort)
}

// FilterByCategory returns the products whose category equals category.
// An empty category or "all" returns products unchanged.
func FilterByCategory(products []catalog.Product, category string) []catalog.Product {
	if category == "" || strings.EqualFold(category, AllCategories) {
		return products
	}

	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Search returns the products whose name contains term, ignoring case.
func Search(products []catalog.Product, term string) []catalog.Product {
	term = strings.TrimSpace(term)
	if term == "" {
		return products
	}

	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(fold.String(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a copy of products ordered by name using English collation.
// Equal names keep their relative order. Unknown options keep the input order.
func Sort(products []catalog.Product, option SortOption) []catalog.Product {
	out := slices.Clone(products)

	var dir int
	switch option {
	case SortNameAsc:
		dir = 1
	case SortNameDesc:
		dir = -1
	default:
		return out
	}

	// Collators keep scratch buffers, so each call gets its own.
	col := collate.New(language.English)
	slices.SortStableFunc(out, func(a, b catalog.Product) int {
		return dir * col.CompareString(a.Name, b.Name)
	})
	return out
}

// ParseSortOption validates s. The empty string selects SortNameAsc.
func ParseSortOption(s string) (SortOption, error) {
	switch SortOption(s) {
	case "":
		return SortNameAsc, nil
	case SortNameAsc, SortNameDesc:
		return SortOption(s), nil
	}
	return "", fmt.Errorf("shop: unknown sort option %q", s)
}

// Categories returns the distinct non-empty categories in order of first appearance.
func Categories(products []catalog.Product) []string {
	seen := make(map[string]struct{}, len(products))
	var out []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Related returns the products sharing p's category, excluding p itself.
// A product without a category has no related products.
func Related(products []catalog.Product, p catalog.Product) []catalog.Product {
	if p.Category == "" {
		return nil
	}

	var out []catalog.Product
	for _, other := range products {
		if other.Category == p.Category && other.ID != p.ID {
			out = append(out, other)
		}
	}
	return out
}

// PriceLabel formats a product price for display.
func PriceLabel(p catalog.Product) string {
	if p.Price == nil {
		return "price on request"
	}
	return fmt.Sprintf("$%.2f", *p.Price)
}
