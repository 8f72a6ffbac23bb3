package listings

import (
	"math"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

// AggregatorImage wraps one photo URL in an aggregator record.
type AggregatorImage struct {
	OriginalURL string `json:"originalUrl"`
}

// AggregatorRecord mirrors a single listing in the aggregator search
// response. The upstream schema floats between releases, so every field is
// optional and normalization must tolerate partial records.
type AggregatorRecord struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Latitude    float64           `json:"latitude"`
	Longitude   float64           `json:"longitude"`
	Street      string            `json:"address"`
	Zip         string            `json:"zip"`
	City        string            `json:"city"`
	BuyingPrice float64           `json:"buyingPrice"`
	PricePerSqm float64           `json:"pricePerSqm"`
	Rooms       float64           `json:"rooms"`
	SquareMeter float64           `json:"squareMeter"`
	Floor       int               `json:"floor"`
	Images      []AggregatorImage `json:"images"`
}

// NormalizeAggregator maps one aggregator record onto the canonical listing
// shape. Total: missing numerics become 0, missing strings stay empty, and
// pricePerSqm is derived when the upstream omitted it.
func NormalizeAggregator(raw AggregatorRecord) model.Listing {
	images := make([]model.Image, 0, len(raw.Images))
	for _, img := range raw.Images {
		if img.OriginalURL == "" {
			continue
		}
		images = append(images, model.Image{OriginalURL: img.OriginalURL})
	}

	price := clampNumeric(raw.BuyingPrice)
	sqm := clampNumeric(raw.SquareMeter)

	perSqm := clampNumeric(raw.PricePerSqm)
	if perSqm == 0 {
		perSqm = derivePricePerSqm(price, sqm)
	}

	return model.Listing{
		ID:    raw.ID,
		Title: raw.Title,
		Address: model.Address{
			Lat:      raw.Latitude,
			Lon:      raw.Longitude,
			Street:   raw.Street,
			Postcode: raw.Zip,
			City:     raw.City,
		},
		BuyingPrice: price,
		PricePerSqm: perSqm,
		Rooms:       clampNumeric(raw.Rooms),
		SquareMeter: sqm,
		Images:      images,
		Floor:       raw.Floor,
	}
}

// NormalizeCompact maps one pre-processed local record onto the canonical
// listing shape. The compact format never carries a floor.
func NormalizeCompact(rec model.CompactRecord) model.Listing {
	images := make([]model.Image, 0, len(rec.Imgs))
	for _, url := range rec.Imgs {
		if url == "" {
			continue
		}
		images = append(images, model.Image{OriginalURL: url})
	}

	price := clampNumeric(rec.P)
	sqm := clampNumeric(rec.S)

	return model.Listing{
		ID:    rec.ID,
		Title: rec.T,
		Address: model.Address{
			Lat:      rec.Lat,
			Lon:      rec.Lng,
			Street:   rec.L,
			Postcode: rec.PC,
			City:     rec.C,
		},
		BuyingPrice: price,
		PricePerSqm: derivePricePerSqm(price, sqm),
		Rooms:       clampNumeric(rec.R),
		SquareMeter: sqm,
		Images:      images,
		Floor:       0,
	}
}

func derivePricePerSqm(price, sqm float64) float64 {
	if sqm <= 0 {
		return 0
	}
	return math.Round(price / sqm)
}

func clampNumeric(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
