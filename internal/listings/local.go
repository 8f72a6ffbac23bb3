package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

// LocalStore serves the pre-processed local dataset. The file is read once
// at startup and treated as read-only for the remainder of the process
// lifetime — concurrent readers are safe because there are no writers.
type LocalStore struct {
	listings []model.Listing
	logger   *slog.Logger
}

// NewLocalStore reads and normalizes the compact dataset at path.
func NewLocalStore(path string, logger *slog.Logger) (*LocalStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	var records []model.CompactRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}

	store := NewLocalStoreFromRecords(records, logger)
	logger.Info("local dataset loaded", "path", path, "listings", len(store.listings))
	return store, nil
}

// NewLocalStoreFromRecords builds a store from in-memory records. Used by
// tests and as the empty fallback when no dataset file is present.
func NewLocalStoreFromRecords(records []model.CompactRecord, logger *slog.Logger) *LocalStore {
	items := make([]model.Listing, 0, len(records))
	for _, rec := range records {
		items = append(items, NormalizeCompact(rec))
	}
	return &LocalStore{listings: items, logger: logger}
}

// Len returns the number of listings held.
func (s *LocalStore) Len() int { return len(s.listings) }

// Name implements Provider.
func (s *LocalStore) Name() string { return "local" }

// Fetch filters the dataset and paginates with offset/limit. The location is
// ignored: the local dataset covers a single pre-processed region and serves
// as the chain's last resort.
func (s *LocalStore) Fetch(_ context.Context, q Query) (*Page, error) {
	filtered := make([]model.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		if q.Matches(l) {
			filtered = append(filtered, l)
		}
	}

	total := len(filtered)

	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if q.Limit > 0 && offset+q.Limit < total {
		end = offset + q.Limit
	}

	return &Page{Items: filtered[offset:end], Total: total, Source: SourceLocal}, nil
}
