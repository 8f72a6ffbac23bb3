package main

import (
	"encoding/json"
	"testing"
)

func TestCompactDropsInvalidRecords(t *testing.T) {
	raw := []byte(`[
		{"id": "a", "title": "Good", "price": {"amount": 300000},
		 "address": {"latitude": 48.1, "longitude": 11.5, "line": "Str. 1", "postcode": "80331", "city": "München"},
		 "size": {"area": 60}, "rooms": {"count": 2},
		 "pictures": {"pictures": [{"url": "https://img/1.jpg"}, {"url": ""}]}},
		{"id": "b", "title": "No price", "address": {"latitude": 48.1, "longitude": 11.5}},
		{"id": "c", "title": "Zero price", "price": {"amount": 0}, "address": {"latitude": 48.1, "longitude": 11.5}},
		{"id": "d", "title": "No coords", "price": {"amount": 250000}, "address": {"line": "Str. 2"}},
		{"id": "e", "title": "No address", "price": {"amount": 250000}}
	]`)

	var properties []rawProperty
	if err := json.Unmarshal(raw, &properties); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	records, skipped := compact(properties)

	if len(records) != 1 {
		t.Fatalf("kept %d records, want 1", len(records))
	}
	if skipped != 4 {
		t.Errorf("skipped = %d, want 4", skipped)
	}

	rec := records[0]
	if rec.ID != "a" || rec.P != 300000 || rec.C != "München" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if len(rec.Imgs) != 1 || rec.Imgs[0] != "https://img/1.jpg" {
		t.Errorf("empty image URLs must be dropped, got %v", rec.Imgs)
	}
}

func TestCompactDefaultsCity(t *testing.T) {
	properties := []rawProperty{}
	if err := json.Unmarshal([]byte(`[
		{"id": "x", "title": "No city", "price": {"amount": 200000},
		 "address": {"latitude": 48.2, "longitude": 11.4}}
	]`), &properties); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	records, _ := compact(properties)
	if len(records) != 1 {
		t.Fatalf("kept %d records, want 1", len(records))
	}
	if records[0].C != defaultCity {
		t.Errorf("city = %q, want %q", records[0].C, defaultCity)
	}
}
