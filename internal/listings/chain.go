package listings

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

// Chain tries providers in order and stops at the first non-empty page.
// Provider errors and empty pages both advance to the next provider; errors
// are logged, never surfaced. A failed upstream and an empty one trigger the
// same fallback.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain builds a chain over the given providers.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, logger: logger}
}

// Fetch walks the chain. When every provider comes up empty an empty local
// page is returned, never nil.
func (c *Chain) Fetch(ctx context.Context, q Query) *Page {
	for _, p := range c.providers {
		page, err := p.Fetch(ctx, q)
		if err != nil {
			c.logger.Warn("listing provider failed — advancing", "provider", p.Name(), "err", err)
			continue
		}
		if page == nil || len(page.Items) == 0 {
			continue
		}
		return page
	}
	return &Page{Items: []model.Listing{}, Total: 0, Source: SourceLocal}
}

// aggregatorProvider pins an AggregatorClient to one location, so the chain
// can hold a requested-location step and a default-location step over the
// same client.
type aggregatorProvider struct {
	client   *AggregatorClient
	location string
}

func (p *aggregatorProvider) Name() string { return "aggregator(" + p.location + ")" }

func (p *aggregatorProvider) Fetch(ctx context.Context, q Query) (*Page, error) {
	q.Location = p.location
	return p.client.Search(ctx, q)
}

// Searcher owns the fallback policy: the requested location first, then the
// default location, then the local dataset.
type Searcher struct {
	agg             *AggregatorClient
	local           *LocalStore
	defaultLocation string
	logger          *slog.Logger
}

// NewSearcher wires the chain components together.
func NewSearcher(agg *AggregatorClient, local *LocalStore, defaultLocation string, logger *slog.Logger) *Searcher {
	return &Searcher{agg: agg, local: local, defaultLocation: defaultLocation, logger: logger}
}

// Search resolves a query through the fallback chain. An empty requested
// location collapses to the default location, skipping the duplicate step.
func (s *Searcher) Search(ctx context.Context, q Query) *Page {
	location := q.Location
	if location == "" {
		location = s.defaultLocation
	}

	providers := []Provider{&aggregatorProvider{client: s.agg, location: location}}
	if !strings.EqualFold(location, s.defaultLocation) {
		providers = append(providers, &aggregatorProvider{client: s.agg, location: s.defaultLocation})
	}
	providers = append(providers, s.local)

	return NewChain(s.logger, providers...).Fetch(ctx, q)
}
