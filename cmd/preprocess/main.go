// preprocess converts a raw aggregator dump into the compact dataset the
// server loads at startup. Records without a price or coordinates are
// dropped; field names shrink to one or two characters to keep the file
// small.
//
// Usage:
//
//	preprocess [-in raw.json] [-out properties.min.json] [-force]
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

const defaultCity = "München"

// rawProperty mirrors the aggregator export shape. Nested optionals stay
// pointers so absent blocks survive decoding.
type rawProperty struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Address *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Line      string  `json:"line"`
		Postcode  string  `json:"postcode"`
		City      string  `json:"city"`
	} `json:"address"`
	Price *struct {
		Amount float64 `json:"amount"`
	} `json:"price"`
	Size *struct {
		Area float64 `json:"area"`
	} `json:"size"`
	Rooms *struct {
		Count float64 `json:"count"`
	} `json:"rooms"`
	Pictures *struct {
		Pictures []struct {
			URL string `json:"url"`
		} `json:"pictures"`
	} `json:"pictures"`
}

func main() {
	in := flag.String("in", "data/properties.json", "raw aggregator dump")
	out := flag.String("out", "data/properties.min.json", "compact output file")
	force := flag.Bool("force", false, "rewrite even when the output is newer than the input")
	flag.Parse()

	if !*force && upToDate(*in, *out) {
		log.Println("[preprocess] Data is up to date. Skipping. (Use -force to override)")
		return
	}

	log.Printf("[preprocess] Reading from %s…", *in)
	raw, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("[preprocess] Read input: %v", err)
	}

	var properties []rawProperty
	if err := json.Unmarshal(raw, &properties); err != nil {
		log.Fatalf("[preprocess] Parse input: %v", err)
	}
	log.Printf("[preprocess] Total items found: %d", len(properties))

	records, skipped := compact(properties)
	log.Printf("[preprocess] Skipped (missing price/coords): %d", skipped)
	log.Printf("[preprocess] Total valid items: %d", len(records))

	encoded, err := json.Marshal(records)
	if err != nil {
		log.Fatalf("[preprocess] Encode output: %v", err)
	}
	if err := os.WriteFile(*out, encoded, 0o644); err != nil {
		log.Fatalf("[preprocess] Write output: %v", err)
	}

	log.Printf("[preprocess] Wrote %s — size reduced from %.2fMB to %.2fMB",
		*out, float64(len(raw))/1024/1024, float64(len(encoded))/1024/1024)
}

// compact filters and shrinks raw records. Returns the kept records and how
// many were skipped.
func compact(properties []rawProperty) ([]model.CompactRecord, int) {
	records := make([]model.CompactRecord, 0, len(properties))
	skipped := 0

	for _, item := range properties {
		if item.Price == nil || item.Price.Amount <= 0 {
			skipped++
			continue
		}
		if item.Address == nil || item.Address.Latitude == 0 || item.Address.Longitude == 0 {
			skipped++
			continue
		}

		city := item.Address.City
		if city == "" {
			city = defaultCity
		}

		rec := model.CompactRecord{
			ID:  item.ID,
			T:   item.Title,
			Lat: item.Address.Latitude,
			Lng: item.Address.Longitude,
			L:   item.Address.Line,
			PC:  item.Address.Postcode,
			C:   city,
			P:   item.Price.Amount,
		}
		if item.Size != nil {
			rec.S = item.Size.Area
		}
		if item.Rooms != nil {
			rec.R = item.Rooms.Count
		}
		if item.Pictures != nil {
			for _, p := range item.Pictures.Pictures {
				if p.URL != "" {
					rec.Imgs = append(rec.Imgs, p.URL)
				}
			}
		}

		records = append(records, rec)
	}

	return records, skipped
}

// upToDate reports whether out exists and is newer than in.
func upToDate(in, out string) bool {
	outInfo, err := os.Stat(out)
	if err != nil {
		return false
	}
	inInfo, err := os.Stat(in)
	if err != nil {
		return false
	}
	return outInfo.ModTime().After(inInfo.ModTime())
}
