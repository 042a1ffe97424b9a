// Package searcher sequences the hybrid search pipeline: condition
// extraction, deterministic filtering, then embedding-based ranking. It is
// the only surface exposed to front ends. Each request runs independently
// with no shared mutable state, so searches may execute concurrently.
package searcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/card-catalog-search/internal/catalog"
	"github.com/lox/card-catalog-search/internal/extractor"
	"github.com/lox/card-catalog-search/internal/filter"
	"github.com/lox/card-catalog-search/internal/ranker"
	"github.com/lox/card-catalog-search/internal/types"
)

// ErrNoMatches marks the defined terminal outcome where a valid filter
// eliminated every card. It is distinct from a search failure.
var ErrNoMatches = errors.New("no cards matched the search conditions")

// DefaultTopK bounds the ranked result set when the caller does not.
const DefaultTopK = 50

// Searcher orchestrates one search request end to end. All collaborators
// are injected at construction, built once at startup, and read-only
// afterwards.
type Searcher struct {
	catalog   *catalog.Catalog
	extractor *extractor.Extractor
	filter    *filter.Engine
	ranker    *ranker.Ranker
	logger    *log.Logger
}

// New creates a Searcher with explicit dependencies
func New(
	cat *catalog.Catalog,
	ext *extractor.Extractor,
	eng *filter.Engine,
	rank *ranker.Ranker,
	logger *log.Logger,
) *Searcher {
	return &Searcher{
		catalog:   cat,
		extractor: ext,
		filter:    eng,
		ranker:    rank,
		logger:    logger,
	}
}

// Search answers a free-text query with a ranked result set.
//
// A failed or empty extraction degrades to ranking the whole catalog; a
// filter that eliminates everything returns ErrNoMatches without invoking
// the ranker. Only upstream service failures (LLM or embedding calls)
// surface as errors.
func (s *Searcher) Search(ctx context.Context, query string, topK int) (types.SearchResults, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	start := time.Now()
	s.logger.Info("Starting search", "query", query, "top_k", topK)

	spec, err := s.extractor.Extract(ctx, query)
	if err != nil {
		return types.SearchResults{}, fmt.Errorf("search temporarily unavailable: %w", err)
	}
	if spec.IsEmpty() {
		s.logger.Info("No conditions extracted, ranking the full catalog", "query", query)
	}

	candidates := s.filter.Apply(s.catalog.All(), spec)
	if len(candidates) == 0 {
		s.logger.Info("No cards passed filtering",
			"query", query,
			"duration", time.Since(start))
		return types.SearchResults{}, ErrNoMatches
	}

	results, err := s.ranker.Rank(ctx, candidates, query, spec, topK)
	if err != nil {
		return types.SearchResults{}, fmt.Errorf("search temporarily unavailable: %w", err)
	}

	s.logger.Info("Search completed",
		"query", query,
		"candidates", len(candidates),
		"results", len(results),
		"duration", time.Since(start))

	return types.SearchResults{
		Results:         results,
		TotalCandidates: len(candidates),
		Limit:           topK,
	}, nil
}
