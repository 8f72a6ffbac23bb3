package listings

import (
	"math"
	"testing"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

func TestNormalizeAggregator_FullRecord(t *testing.T) {
	raw := AggregatorRecord{
		ID:          "ext-1",
		Title:       "Bright 3-room flat",
		Latitude:    48.1374,
		Longitude:   11.5755,
		Street:      "Leopoldstraße 12",
		Zip:         "80802",
		City:        "München",
		BuyingPrice: 650000,
		Rooms:       3,
		SquareMeter: 84,
		Floor:       2,
		Images:      []AggregatorImage{{OriginalURL: "https://img.example/1.jpg"}, {OriginalURL: ""}},
	}

	l := NormalizeAggregator(raw)

	if l.ID != "ext-1" || l.Title != "Bright 3-room flat" {
		t.Errorf("identity fields not carried over: %+v", l)
	}
	if l.Address.City != "München" || l.Address.Postcode != "80802" {
		t.Errorf("address not mapped: %+v", l.Address)
	}
	// 650000 / 84 = 7738.09… → 7738
	if l.PricePerSqm != 7738 {
		t.Errorf("PricePerSqm = %v, want derived 7738", l.PricePerSqm)
	}
	if len(l.Images) != 1 {
		t.Errorf("empty image URLs should be dropped, got %d images", len(l.Images))
	}
	if l.Floor != 2 {
		t.Errorf("Floor = %d, want 2", l.Floor)
	}
}

func TestNormalizeAggregator_KeepsUpstreamPricePerSqm(t *testing.T) {
	l := NormalizeAggregator(AggregatorRecord{BuyingPrice: 100000, SquareMeter: 50, PricePerSqm: 1999})
	if l.PricePerSqm != 1999 {
		t.Errorf("PricePerSqm = %v, want the upstream 1999", l.PricePerSqm)
	}
}

// Totality: arbitrary partial or garbage records must normalize without
// panics, with numeric fields defaulted to zero.
func TestNormalize_Total(t *testing.T) {
	cases := []AggregatorRecord{
		{},
		{BuyingPrice: -500, SquareMeter: -10, Rooms: math.NaN()},
		{BuyingPrice: math.Inf(1)},
		{Title: "only a title"},
	}
	for i, raw := range cases {
		l := NormalizeAggregator(raw)
		for name, v := range map[string]float64{
			"BuyingPrice": l.BuyingPrice,
			"PricePerSqm": l.PricePerSqm,
			"Rooms":       l.Rooms,
			"SquareMeter": l.SquareMeter,
		} {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("case %d: %s = %v, want a non-negative finite default", i, name, v)
			}
		}
		if l.Images == nil {
			t.Errorf("case %d: Images should be an empty slice, not nil", i)
		}
	}
}

func TestNormalizeCompact(t *testing.T) {
	rec := model.CompactRecord{
		ID: "loc-1", T: "Altbau am Park", Lat: 48.15, Lng: 11.58,
		L: "Parkstraße 3", PC: "80339", C: "München",
		P: 480000, S: 60, R: 2, Imgs: []string{"https://img.example/a.jpg"},
	}

	l := NormalizeCompact(rec)

	if l.Title != "Altbau am Park" || l.Address.Street != "Parkstraße 3" {
		t.Errorf("fields not mapped: %+v", l)
	}
	if l.PricePerSqm != 8000 {
		t.Errorf("PricePerSqm = %v, want 8000", l.PricePerSqm)
	}
	if l.Floor != 0 {
		t.Errorf("Floor = %d, want 0 (compact records carry no floor)", l.Floor)
	}
}

func TestNormalizeCompact_ZeroSquareMeters(t *testing.T) {
	l := NormalizeCompact(model.CompactRecord{P: 300000, S: 0})
	if l.PricePerSqm != 0 {
		t.Errorf("PricePerSqm = %v, want 0 when sqm is 0", l.PricePerSqm)
	}
}
