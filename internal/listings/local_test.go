package listings

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecords() []model.CompactRecord {
	return []model.CompactRecord{
		{ID: "1", T: "A", P: 300000, S: 50, R: 2, C: "München"},
		{ID: "2", T: "B", P: 450000, S: 70, R: 3, C: "München"},
		{ID: "3", T: "C", P: 600000, S: 95, R: 4, C: "München"},
		{ID: "4", T: "D", P: 750000, S: 120, R: 5, C: "München"},
	}
}

func TestLocalStore_LoadsFromFile(t *testing.T) {
	store, err := NewLocalStore("testdata/properties.min.json", discardLogger())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	if store.Len() == 0 {
		t.Fatal("fixture dataset should not be empty")
	}

	page, err := store.Fetch(context.Background(), Query{Limit: 50})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.Source != SourceLocal {
		t.Errorf("Source = %q, want %q", page.Source, SourceLocal)
	}
	for _, l := range page.Items {
		if l.ID == "" {
			t.Error("normalized listing missing id")
		}
	}
}

func TestLocalStore_MissingFile(t *testing.T) {
	if _, err := NewLocalStore("testdata/does-not-exist.json", discardLogger()); err == nil {
		t.Error("expected an error for a missing dataset file")
	}
}

func TestLocalStore_Filters(t *testing.T) {
	store := NewLocalStoreFromRecords(testRecords(), discardLogger())

	cases := []struct {
		name    string
		q       Query
		wantIDs []string
	}{
		{"max price", Query{MaxPrice: 500000, Limit: 50}, []string{"1", "2"}},
		{"min price", Query{MinPrice: 500000, Limit: 50}, []string{"3", "4"}},
		{"rooms", Query{MinRooms: 4, Limit: 50}, []string{"3", "4"}},
		{"size", Query{MinSize: 100, Limit: 50}, []string{"4"}},
		{"combined", Query{MaxPrice: 700000, MinRooms: 3, Limit: 50}, []string{"2", "3"}},
		{"no filters", Query{Limit: 50}, []string{"1", "2", "3", "4"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			page, err := store.Fetch(context.Background(), c.q)
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if page.Total != len(c.wantIDs) {
				t.Errorf("Total = %d, want %d", page.Total, len(c.wantIDs))
			}
			if len(page.Items) != len(c.wantIDs) {
				t.Fatalf("got %d items, want %d", len(page.Items), len(c.wantIDs))
			}
			for i, id := range c.wantIDs {
				if page.Items[i].ID != id {
					t.Errorf("item %d = %q, want %q", i, page.Items[i].ID, id)
				}
			}
		})
	}
}

func TestLocalStore_Pagination(t *testing.T) {
	store := NewLocalStoreFromRecords(testRecords(), discardLogger())

	page, err := store.Fetch(context.Background(), Query{Offset: 1, Limit: 2})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.Total != 4 {
		t.Errorf("Total = %d, want 4 (total counts all matches, not the page)", page.Total)
	}
	if len(page.Items) != 2 || page.Items[0].ID != "2" || page.Items[1].ID != "3" {
		t.Errorf("unexpected page: %+v", page.Items)
	}

	// Offset past the end yields an empty page, not an error.
	past, err := store.Fetch(context.Background(), Query{Offset: 99, Limit: 10})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(past.Items) != 0 {
		t.Errorf("got %d items past the end, want 0", len(past.Items))
	}
}
