// Package ranker orders filtered candidates by embedding similarity plus
// deterministic exact-match bonuses. Similarity alone is noisy for exact
// structural facts, so candidates satisfying the structured conditions are
// pushed above semantically-similar-but-non-matching ones, with similarity
// left as the tie-breaker among equally-bonused cards.
package ranker

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/card-catalog-search/internal/embeddings"
	"github.com/lox/card-catalog-search/internal/types"
)

// Bonus weights for exact structural matches. All bonuses are additive.
const (
	civilizationBonus = 0.5
	keywordBonus      = 0.3
	raceKeywordBonus  = 0.2
	effectGroupBonus  = 0.15
)

// Ranker scores candidates against the raw query
type Ranker struct {
	embeddings embeddings.EmbeddingProvider
	vectors    embeddings.VectorStore
	logger     *log.Logger
}

// New creates a Ranker with explicit dependencies
func New(provider embeddings.EmbeddingProvider, vectors embeddings.VectorStore, logger *log.Logger) *Ranker {
	return &Ranker{
		embeddings: provider,
		vectors:    vectors,
		logger:     logger,
	}
}

// Rank orders candidates by cosine similarity to the query embedding plus
// exact-match bonuses, returning at most topK results. Candidates must be
// in catalog order; ties keep that order so repeated identical queries
// produce identical rankings. An empty candidate set returns immediately
// without generating an embedding.
func (r *Ranker) Rank(
	ctx context.Context,
	candidates []types.Card,
	query string,
	spec types.FilterSpec,
	topK int,
) ([]types.CardSearchResult, error) {
	if len(candidates) == 0 {
		return []types.CardSearchResult{}, nil
	}

	start := time.Now()
	r.logger.Debug("Ranking candidates", "candidates", len(candidates), "top_k", topK)

	queryEmbedding, err := r.embeddings.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	vectors, err := r.vectors.GetEmbeddings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate embeddings: %w", err)
	}

	var missing int
	results := make([]types.CardSearchResult, 0, len(candidates))
	for _, card := range candidates {
		embedding, ok := vectors[card.ID]
		if !ok || len(embedding) != len(queryEmbedding) {
			// A candidate without a usable embedding is a data
			// consistency defect, not a request failure.
			r.logger.Warn("Candidate has no usable embedding, excluding from ranking",
				"id", card.ID,
				"name", card.Name)
			missing++
			continue
		}
		results = append(results, types.CardSearchResult{
			Card: card,
			Scores: types.SearchScore{
				VectorScore: CosineSimilarity(queryEmbedding, embedding),
				BonusScore:  Bonus(card, spec),
			},
		})
	}

	// Stable sort: candidates arrive in catalog order, so equal totals
	// keep their insertion order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Scores.Total() > results[j].Scores.Total()
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	r.logger.Debug("Ranking completed",
		"results", len(results),
		"missing_embeddings", missing,
		"duration", time.Since(start))

	return results, nil
}

// Bonus computes the deterministic exact-match bonus for a card under the
// given spec. It is a pure function of its inputs.
func Bonus(card types.Card, spec types.FilterSpec) float64 {
	var bonus float64

	for _, civ := range spec.Civilizations {
		if card.Civilization != "" && strings.Contains(card.Civilization, civ) {
			bonus += civilizationBonus
		}
	}

	for _, kw := range spec.Keywords {
		if card.Text != "" && strings.Contains(card.Text, kw) {
			bonus += keywordBonus
		}
	}

	for _, race := range spec.RaceKeywords {
		if card.Race != "" && strings.Contains(card.Race, race) {
			bonus += raceKeywordBonus
		}
	}

	// At most one bonus per group, however many fragments match.
	for _, group := range spec.EffectGroups {
		for _, fragment := range group {
			if card.Text != "" && strings.Contains(card.Text, fragment) {
				bonus += effectGroupBonus
				break
			}
		}
	}

	return bonus
}

// CosineSimilarity computes the cosine similarity of two equal-length
// vectors, in [-1, 1]. Zero vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
