package searcher

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/card-catalog-search/internal/catalog"
	"github.com/lox/card-catalog-search/internal/embeddings"
	"github.com/lox/card-catalog-search/internal/extractor"
	"github.com/lox/card-catalog-search/internal/filter"
	"github.com/lox/card-catalog-search/internal/keywords"
	"github.com/lox/card-catalog-search/internal/ranker"
	"github.com/lox/card-catalog-search/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLLMClient returns a canned extraction response
type MockLLMClient struct {
	response string
	err      error
}

func (m *MockLLMClient) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// MockEmbeddingProvider returns a fixed embedding and counts calls
type MockEmbeddingProvider struct {
	calls int
}

func (m *MockEmbeddingProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	return []float32{1, 0}, nil
}

func (m *MockEmbeddingProvider) GetEmbeddingModelName() string { return "mock-model" }

// MockVectorStore serves every card the same embedding, so rankings fall
// back to catalog order
type MockVectorStore struct {
	ids []string
}

func (m *MockVectorStore) StoreEmbedding(ctx context.Context, id string, text string, embedding []float32, metadata embeddings.EmbeddingMetadata) error {
	return nil
}

func (m *MockVectorStore) HasEmbedding(ctx context.Context, id string) (bool, embeddings.EmbeddingMetadata, error) {
	return true, embeddings.EmbeddingMetadata{}, nil
}

func (m *MockVectorStore) GetEmbeddings(ctx context.Context, ids []string) (map[string][]float32, error) {
	result := make(map[string][]float32, len(ids))
	for _, id := range ids {
		result[id] = []float32{1, 0}
	}
	return result, nil
}

func (m *MockVectorStore) RemoveEmbedding(ctx context.Context, id string) error { return nil }
func (m *MockVectorStore) Count() int                                           { return len(m.ids) }
func (m *MockVectorStore) Close() error                                         { return nil }

func intPtr(n int) *int { return &n }

func testCatalog() *catalog.Catalog {
	return catalog.NewCatalog([]types.Card{
		{ID: "card_0", Name: "Ember Runner", Civilization: "Fire", CardType: "Creature", Cost: intPtr(2), Text: "Speed Attacker"},
		{ID: "card_1", Name: "Tide Scholar", Civilization: "Water", CardType: "Creature", Cost: intPtr(2), Text: "Draw a card."},
		{ID: "card_2", Name: "Flame Burst", Civilization: "Fire", CardType: "Spell", Cost: intPtr(3), Text: "Destroy one creature."},
	})
}

func newTestSearcher(client *MockLLMClient, provider *MockEmbeddingProvider) *Searcher {
	logger := log.New(io.Discard)
	list := keywords.NewList([]string{"Blocker", "Speed Attacker"})
	cat := testCatalog()
	return New(
		cat,
		extractor.New(client, list, extractor.Glossary{}, logger),
		filter.New(list, logger),
		ranker.New(provider, &MockVectorStore{}, logger),
		logger,
	)
}

func TestSearch(t *testing.T) {
	client := &MockLLMClient{response: `{"civilizations": ["Fire"]}`}
	provider := &MockEmbeddingProvider{}

	results, err := newTestSearcher(client, provider).Search(context.Background(), "fire cards", 10)
	require.NoError(t, err)

	assert.Equal(t, 2, results.TotalCandidates)
	require.Len(t, results.Results, 2)
	assert.Equal(t, "card_0", results.Results[0].ID)
	assert.Equal(t, "card_2", results.Results[1].ID)
	assert.Equal(t, 1, provider.calls)
}

func TestSearchMalformedExtractionRanksFullCatalog(t *testing.T) {
	client := &MockLLMClient{response: "sorry, I can't help with that"}
	provider := &MockEmbeddingProvider{}

	results, err := newTestSearcher(client, provider).Search(context.Background(), "vague query", 10)
	require.NoError(t, err)

	assert.Equal(t, 3, results.TotalCandidates)
	assert.Len(t, results.Results, 3)
}

func TestSearchLLMFailure(t *testing.T) {
	client := &MockLLMClient{err: errors.New("connection refused")}
	provider := &MockEmbeddingProvider{}

	_, err := newTestSearcher(client, provider).Search(context.Background(), "anything", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search temporarily unavailable")
	assert.Equal(t, 0, provider.calls)
}

func TestSearchNoMatches(t *testing.T) {
	client := &MockLLMClient{response: `{"civilizations": ["Darkness"]}`}
	provider := &MockEmbeddingProvider{}

	_, err := newTestSearcher(client, provider).Search(context.Background(), "darkness cards", 10)
	require.ErrorIs(t, err, ErrNoMatches)
	assert.Equal(t, 0, provider.calls, "an empty candidate set must not reach the embedding provider")
}

func TestSearchDefaultTopK(t *testing.T) {
	client := &MockLLMClient{response: `{}`}
	provider := &MockEmbeddingProvider{}

	results, err := newTestSearcher(client, provider).Search(context.Background(), "everything", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, results.Limit)
}
