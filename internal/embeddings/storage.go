package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/philippgille/chromem-go"
)

// EmbeddingMetadata records what a stored embedding was computed from, so
// ingestion can skip cards whose description text has not changed.
type EmbeddingMetadata struct {
	ContentHash string    `json:"content_hash"`
	ModelName   string    `json:"model_name"`
	Length      int       `json:"length"`
	LastUpdated time.Time `json:"last_updated"`
}

func (m *EmbeddingMetadata) ToMap() map[string]string {
	return map[string]string{
		"content_hash": m.ContentHash,
		"model_name":   m.ModelName,
		"length":       strconv.Itoa(m.Length),
		"last_updated": m.LastUpdated.Format(time.RFC3339),
	}
}

func EmbeddingFromMap(metadata map[string]string) (EmbeddingMetadata, error) {
	length, err := strconv.Atoi(metadata["length"])
	if err != nil {
		return EmbeddingMetadata{}, fmt.Errorf("failed to parse length: %w", err)
	}
	lastUpdated, err := time.Parse(time.RFC3339, metadata["last_updated"])
	if err != nil {
		return EmbeddingMetadata{}, fmt.Errorf("failed to parse last updated: %w", err)
	}
	return EmbeddingMetadata{
		ContentHash: metadata["content_hash"],
		ModelName:   metadata["model_name"],
		Length:      length,
		LastUpdated: lastUpdated,
	}, nil
}

func (m *EmbeddingMetadata) MatchContent(content string) bool {
	return m.ContentHash == Hash(content)
}

// Hash creates a SHA-256 hash of the content
func Hash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// VectorStore holds one embedding per card, keyed by the card's stable ID.
// The index is written by the ingestion pipeline and read-only while serving
// searches; a rebuild must not run concurrently with reads.
type VectorStore interface {
	// StoreEmbedding stores an embedding for the given card ID
	StoreEmbedding(ctx context.Context, id string, text string, embedding []float32, metadata EmbeddingMetadata) error

	// HasEmbedding checks whether an embedding exists for the given card ID
	// and returns its metadata if it does
	HasEmbedding(ctx context.Context, id string) (bool, EmbeddingMetadata, error)

	// GetEmbeddings retrieves stored embeddings for the given card IDs.
	// IDs with no stored embedding are simply absent from the result.
	GetEmbeddings(ctx context.Context, ids []string) (map[string][]float32, error)

	// RemoveEmbedding removes the embedding for a card ID
	RemoveEmbedding(ctx context.Context, id string) error

	// Count returns the number of stored embeddings
	Count() int

	// Close closes the store
	Close() error
}

// ChromemStore implements VectorStore using the chromem-go vector database
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	logger     *log.Logger
	modelName  string
}

// NewChromemStore opens (or creates) the persistent card embedding index
// under dataDir.
func NewChromemStore(dataDir string, provider EmbeddingProvider, logger *log.Logger) (*ChromemStore, error) {
	dbPath := filepath.Join(dataDir, "chromem-go")

	embeddingFunc := func(ctx context.Context, text string) ([]float32, error) {
		return provider.GenerateEmbedding(ctx, text)
	}

	db, err := chromem.NewPersistentDB(dbPath, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create chromem database: %w", err)
	}

	collection, err := db.GetOrCreateCollection("cards", nil, embeddingFunc)
	if err != nil {
		db.Reset()
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	store := &ChromemStore{
		db:         db,
		collection: collection,
		logger:     logger,
		modelName:  provider.GetEmbeddingModelName(),
	}

	logger.Info("Opened chromem vector database",
		"path", dbPath,
		"document_count", collection.Count(),
		"model_name", store.modelName)

	return store, nil
}

func (s *ChromemStore) StoreEmbedding(
	ctx context.Context,
	id string,
	text string,
	embedding []float32,
	metadata EmbeddingMetadata,
) error {
	doc, err := chromem.NewDocument(ctx, id, metadata.ToMap(), embedding, text, nil)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	if err := s.collection.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to add document to collection: %w", err)
	}

	s.logger.Debug("Stored embedding", "id", id, "metadata", metadata)
	return nil
}

func (s *ChromemStore) HasEmbedding(ctx context.Context, id string) (bool, EmbeddingMetadata, error) {
	doc, err := s.collection.GetByID(ctx, id)
	if err != nil {
		return false, EmbeddingMetadata{}, nil
	}

	metadata, err := EmbeddingFromMap(doc.Metadata)
	if err != nil {
		return false, EmbeddingMetadata{}, fmt.Errorf("failed to parse metadata for id %s: %w", id, err)
	}

	return true, metadata, nil
}

// GetEmbeddings fetches stored vectors by card ID. A missing ID is not an
// error; the caller decides how to treat the gap.
func (s *ChromemStore) GetEmbeddings(ctx context.Context, ids []string) (map[string][]float32, error) {
	vectors := make(map[string][]float32, len(ids))
	for _, id := range ids {
		doc, err := s.collection.GetByID(ctx, id)
		if err != nil {
			continue
		}
		vectors[id] = doc.Embedding
	}
	return vectors, nil
}

func (s *ChromemStore) RemoveEmbedding(ctx context.Context, id string) error {
	return s.collection.Delete(ctx, nil, nil, id)
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

// Close closes the store. Chromem persists on every write, so there is
// nothing to flush.
func (s *ChromemStore) Close() error {
	return nil
}
