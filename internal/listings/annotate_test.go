package listings

import (
	"testing"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

func TestAnnotate_VerdictAndGap(t *testing.T) {
	items := []model.Listing{
		{ID: "cheap", BuyingPrice: 200000},
		{ID: "exact", BuyingPrice: 350000},
		{ID: "over", BuyingPrice: 500000},
	}

	out := Annotate(items, 350000)

	byID := map[string]*model.AffordabilityResult{}
	for _, l := range out {
		byID[l.ID] = l.Affordability
	}

	if !byID["cheap"].IsAffordable || byID["cheap"].Gap != 0 {
		t.Errorf("cheap: %+v", byID["cheap"])
	}
	if !byID["exact"].IsAffordable {
		t.Errorf("a listing priced exactly at the ceiling is affordable: %+v", byID["exact"])
	}
	if byID["over"].IsAffordable || byID["over"].Gap != 150000 {
		t.Errorf("over: %+v", byID["over"])
	}
}

func TestAnnotate_SortAffordableFirstThenPrice(t *testing.T) {
	items := []model.Listing{
		{ID: "e", BuyingPrice: 900000},
		{ID: "a", BuyingPrice: 300000},
		{ID: "d", BuyingPrice: 400000},
		{ID: "b", BuyingPrice: 100000},
		{ID: "c", BuyingPrice: 650000},
	}

	out := Annotate(items, 350000)

	wantOrder := []string{"b", "a", "d", "c", "e"}
	for i, id := range wantOrder {
		if out[i].ID != id {
			t.Fatalf("position %d = %q, want %q (full order: %v)", i, out[i].ID, id, ids(out))
		}
	}

	// Partition property: every affordable listing precedes every
	// unaffordable one, and prices ascend within each partition.
	seenUnaffordable := false
	for i, l := range out {
		if l.Affordability.IsAffordable && seenUnaffordable {
			t.Fatalf("affordable listing %q after an unaffordable one", l.ID)
		}
		if !l.Affordability.IsAffordable {
			seenUnaffordable = true
		}
		if i > 0 && out[i-1].Affordability.IsAffordable == l.Affordability.IsAffordable &&
			out[i-1].BuyingPrice > l.BuyingPrice {
			t.Fatalf("prices not ascending within partition at %d", i)
		}
	}
}

func TestAnnotate_StableOnEqualPrices(t *testing.T) {
	items := []model.Listing{
		{ID: "first", BuyingPrice: 250000},
		{ID: "second", BuyingPrice: 250000},
	}
	out := Annotate(items, 300000)
	if out[0].ID != "first" || out[1].ID != "second" {
		t.Errorf("equal prices should keep upstream order, got %v", ids(out))
	}
}

func TestWithoutAnnotation(t *testing.T) {
	out := WithoutAnnotation([]model.Listing{{ID: "a"}, {ID: "b"}})
	for _, l := range out {
		if l.Affordability != nil {
			t.Errorf("listing %q should carry no affordability field", l.ID)
		}
	}
	if CountAffordable(out) != 0 {
		t.Error("unannotated listings count as not affordable")
	}
}

func ids(items []model.ListingWithAffordability) []string {
	out := make([]string, len(items))
	for i, l := range items {
		out[i] = l.ID
	}
	return out
}
