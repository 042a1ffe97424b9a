package ingest

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/card-catalog-search/internal/catalog"
	"github.com/lox/card-catalog-search/internal/embeddings"
	"github.com/lox/card-catalog-search/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEmbeddingProvider counts embedding calls
type MockEmbeddingProvider struct {
	calls int
}

func (m *MockEmbeddingProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *MockEmbeddingProvider) GetEmbeddingModelName() string { return "mock-model" }

// MockVectorStore remembers stored embeddings in memory
type MockVectorStore struct {
	stored map[string]embeddings.EmbeddingMetadata
}

func NewMockVectorStore() *MockVectorStore {
	return &MockVectorStore{stored: make(map[string]embeddings.EmbeddingMetadata)}
}

func (m *MockVectorStore) StoreEmbedding(ctx context.Context, id string, text string, embedding []float32, metadata embeddings.EmbeddingMetadata) error {
	m.stored[id] = metadata
	return nil
}

func (m *MockVectorStore) HasEmbedding(ctx context.Context, id string) (bool, embeddings.EmbeddingMetadata, error) {
	metadata, ok := m.stored[id]
	return ok, metadata, nil
}

func (m *MockVectorStore) GetEmbeddings(ctx context.Context, ids []string) (map[string][]float32, error) {
	return map[string][]float32{}, nil
}

func (m *MockVectorStore) RemoveEmbedding(ctx context.Context, id string) error {
	delete(m.stored, id)
	return nil
}

func (m *MockVectorStore) Count() int   { return len(m.stored) }
func (m *MockVectorStore) Close() error { return nil }

const testCSV = `card_name,civilization,color_type,card_type,cost,power,race,text
Ember Runner,Fire,single,Creature,2,2000,Human,Speed Attacker
Tide Scholar,Water,single,Creature,2,1000,Cyber Lord,"When you put this creature into the battle zone, draw a card."
Boundless Horizon,Nature,single,Spell,∞,,,Put the top card of your deck into your mana zone.
`

func writeTestCSV(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "cards.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func setupTestIngester(t *testing.T) (*Ingester, *catalog.Store, *MockEmbeddingProvider, *MockVectorStore) {
	logger := log.New(io.Discard)
	store, err := catalog.New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	provider := &MockEmbeddingProvider{}
	vectors := NewMockVectorStore()
	return New(logger, store, provider, vectors), store, provider, vectors
}

func TestIngestCSV(t *testing.T) {
	ingester, store, provider, vectors := setupTestIngester(t)
	path := writeTestCSV(t, testCSV)

	count, err := ingester.IngestCSV(context.Background(), path, Config{Concurrency: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 3, provider.calls)
	assert.Equal(t, 3, vectors.Count())

	cat, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, cat.Len())

	first := cat.All()[0]
	assert.Equal(t, "card_0", first.ID)
	assert.Equal(t, "Ember Runner", first.Name)
	require.NotNil(t, first.Cost)
	assert.Equal(t, 2, *first.Cost)

	// "∞" is not a numeric cost and must load as nil, not zero.
	third := cat.All()[2]
	assert.Nil(t, third.Cost)
	assert.Contains(t, third.Tags, "mana boost")
}

func TestIngestCSVSkipsUnchangedEmbeddings(t *testing.T) {
	ingester, _, provider, _ := setupTestIngester(t)
	path := writeTestCSV(t, testCSV)

	_, err := ingester.IngestCSV(context.Background(), path, Config{Concurrency: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, provider.calls)

	// A second run over identical content must not re-embed anything.
	_, err = ingester.IngestCSV(context.Background(), path, Config{Concurrency: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, provider.calls)
}

func TestIngestCSVLimit(t *testing.T) {
	ingester, store, _, _ := setupTestIngester(t)
	path := writeTestCSV(t, testCSV)

	count, err := ingester.IngestCSV(context.Background(), path, Config{Concurrency: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	total, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestIngestCSVMissingNameColumn(t *testing.T) {
	ingester, _, _, _ := setupTestIngester(t)
	path := writeTestCSV(t, "name,cost\nFoo,2\n")

	_, err := ingester.IngestCSV(context.Background(), path, Config{Concurrency: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card_name")
}

func TestDescriptionText(t *testing.T) {
	card := types.Card{
		Name:         "Ember Runner",
		Civilization: "Fire",
		CardType:     "Creature",
		Cost:         nil,
		Power:        "2000",
		Text:         "Speed Attacker",
		Tags:         []string{"draw", "mana boost"},
	}

	text := DescriptionText(card)
	assert.Contains(t, text, "Name: Ember Runner")
	assert.Contains(t, text, "Civilization: Fire")
	assert.Contains(t, text, "Tags: draw, mana boost")
	// Absent fields are omitted entirely rather than rendered empty.
	assert.NotContains(t, text, "Cost:")
	assert.NotContains(t, text, "Race:")
}
