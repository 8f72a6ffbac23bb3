package listings

import (
	"sort"

	"github.com/gereonelvers/mortgage-moment/internal/model"
	"github.com/gereonelvers/mortgage-moment/internal/mortgage"
)

// Annotate attaches an affordability verdict to each listing and sorts the
// result: affordable listings first, ascending price within each partition.
// The sort is stable, so equal prices keep their upstream order.
func Annotate(items []model.Listing, ceiling float64) []model.ListingWithAffordability {
	out := make([]model.ListingWithAffordability, 0, len(items))
	for _, l := range items {
		res := mortgage.CheckPrice(l.BuyingPrice, ceiling)
		out = append(out, model.ListingWithAffordability{Listing: l, Affordability: &res})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Affordability.IsAffordable != b.Affordability.IsAffordable {
			return a.Affordability.IsAffordable
		}
		return a.BuyingPrice < b.BuyingPrice
	})
	return out
}

// CountAffordable returns how many annotated listings are affordable.
func CountAffordable(items []model.ListingWithAffordability) int {
	n := 0
	for _, l := range items {
		if l.Affordability != nil && l.Affordability.IsAffordable {
			n++
		}
	}
	return n
}

// WithoutAnnotation wraps listings unchanged for responses where the caller
// supplied no income signal; the affordability field stays absent.
func WithoutAnnotation(items []model.Listing) []model.ListingWithAffordability {
	out := make([]model.ListingWithAffordability, 0, len(items))
	for _, l := range items {
		out = append(out, model.ListingWithAffordability{Listing: l})
	}
	return out
}
