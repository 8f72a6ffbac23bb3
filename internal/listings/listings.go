// Package listings implements property retrieval: an external aggregator
// client, the read-only local dataset, the ordered fallback chain between
// them, normalization onto the canonical listing shape, and affordability
// annotation of the results.
package listings

import (
	"context"
	"fmt"
	"strings"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

// Source identifies which provider produced a page of listings.
type Source string

const (
	SourceExternalAPI Source = "external"
	SourceLocal       Source = "local"
)

// Query carries the search filters plus pagination. Zero-valued filters are
// inactive.
type Query struct {
	Location string
	MinPrice float64
	MaxPrice float64
	MinRooms float64
	MinSize  float64
	Offset   int
	Limit    int
}

// Matches reports whether a normalized listing passes the price/rooms/size
// filters. Applied uniformly to every source so filter guarantees hold no
// matter which provider answered.
func (q Query) Matches(l model.Listing) bool {
	if q.MaxPrice > 0 && l.BuyingPrice > q.MaxPrice {
		return false
	}
	if q.MinPrice > 0 && l.BuyingPrice < q.MinPrice {
		return false
	}
	if q.MinRooms > 0 && l.Rooms < q.MinRooms {
		return false
	}
	if q.MinSize > 0 && l.SquareMeter < q.MinSize {
		return false
	}
	return true
}

// CacheKey folds every query dimension into one cache key so a cached page is
// only ever served for the exact same search.
func (q Query) CacheKey() string {
	return fmt.Sprintf("listings:%s:%d:%d:%g:%g:%g:%g",
		strings.ToLower(q.Location), q.Offset, q.Limit,
		q.MinPrice, q.MaxPrice, q.MinRooms, q.MinSize)
}

// Page is one page of normalized, filtered listings.
type Page struct {
	Items  []model.Listing `json:"items"`
	Total  int             `json:"total"`
	Source Source          `json:"source"`
}

// Provider is one strategy in the source chain. A (nil, nil) return means
// "nothing from me, try the next one".
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q Query) (*Page, error)
}
