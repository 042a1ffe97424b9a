// Package ingest builds the card catalog and its embedding index from a
// card CSV export. Ingestion is an offline pipeline and must not run
// concurrently with serving, which assumes a quiescent index.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/card-catalog-search/internal/catalog"
	"github.com/lox/card-catalog-search/internal/embeddings"
	"github.com/lox/card-catalog-search/internal/tagger"
	"github.com/lox/card-catalog-search/internal/types"
	"golang.org/x/sync/errgroup"
)

// Config controls one ingestion run
type Config struct {
	Concurrency int
	Progress    bool
	Limit       int
}

// Ingester loads cards into the catalog store and the vector store
type Ingester struct {
	logger  *log.Logger
	store   *catalog.Store
	embed   embeddings.EmbeddingProvider
	vectors embeddings.VectorStore
}

// New creates an Ingester with explicit dependencies
func New(
	logger *log.Logger,
	store *catalog.Store,
	provider embeddings.EmbeddingProvider,
	vectors embeddings.VectorStore,
) *Ingester {
	return &Ingester{
		logger:  logger,
		store:   store,
		embed:   provider,
		vectors: vectors,
	}
}

// IngestCSV reads the card export at path, tags each card, stores it in the
// catalog and generates embeddings for new or changed cards. Returns the
// number of cards processed.
func (i *Ingester) IngestCSV(ctx context.Context, path string, config Config) (int, error) {
	start := time.Now()

	cards, skippedRows, err := readCards(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read card export: %w", err)
	}
	if config.Limit > 0 && len(cards) > config.Limit {
		cards = cards[:config.Limit]
	}
	i.logger.Info("Read card export", "path", path, "cards", len(cards), "skipped_rows", skippedRows)

	for _, card := range cards {
		if err := i.store.Put(ctx, card); err != nil {
			return 0, fmt.Errorf("failed to store card %s: %w", card.ID, err)
		}
	}

	var progress Progress
	if config.Progress {
		progress = NewBarProgress(len(cards))
	} else {
		progress = NewNoopProgress()
	}
	defer progress.Close()

	var updated int32
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(config.Concurrency)

	for _, card := range cards {
		card := card
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			wasUpdated, err := i.UpdateEmbedding(gCtx, card)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				return fmt.Errorf("failed to embed card %s: %w", card.ID, err)
			}
			if wasUpdated {
				atomic.AddInt32(&updated, 1)
			}

			return progress.Add(1)
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			i.logger.Info("Ingestion interrupted")
			return 0, err
		}
		return 0, fmt.Errorf("ingestion failed: %w", err)
	}

	i.logger.Info("Ingestion completed",
		"cards", len(cards),
		"embeddings_updated", atomic.LoadInt32(&updated),
		"duration", time.Since(start))

	return len(cards), nil
}

// UpdateEmbedding generates and stores the embedding for a card's
// description text, skipping cards whose stored embedding already matches
// the current content. Returns true when the embedding was created or
// replaced.
func (i *Ingester) UpdateEmbedding(ctx context.Context, card types.Card) (bool, error) {
	text := DescriptionText(card)

	exists, metadata, err := i.vectors.HasEmbedding(ctx, card.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check embedding existence: %w", err)
	}
	if exists && metadata.MatchContent(text) {
		i.logger.Debug("Embedding up to date", "id", card.ID, "name", card.Name)
		return false, nil
	}

	embedding, err := i.embed.GenerateEmbedding(ctx, text)
	if err != nil {
		return false, fmt.Errorf("failed to generate embedding: %w", err)
	}

	err = i.vectors.StoreEmbedding(ctx, card.ID, text, embedding, embeddings.EmbeddingMetadata{
		ContentHash: embeddings.Hash(text),
		ModelName:   i.embed.GetEmbeddingModelName(),
		Length:      len(embedding),
		LastUpdated: time.Now(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to store embedding: %w", err)
	}

	i.logger.Debug("Updated card embedding", "id", card.ID, "name", card.Name)
	return true, nil
}

// DescriptionText synthesizes the text a card is embedded under.
func DescriptionText(card types.Card) string {
	var parts []string
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, label+": "+value)
		}
	}

	add("Name", card.Name)
	add("Civilization", card.Civilization)
	add("Card Type", card.CardType)
	add("Cost", card.CostString())
	add("Power", card.Power)
	add("Race", card.Race)
	add("Text", card.Text)
	if len(card.Tags) > 0 {
		add("Tags", strings.Join(card.Tags, ", "))
	}

	return strings.Join(parts, "\n")
}

// readCards parses the card CSV export. Rows with the wrong column count
// are skipped rather than failing the whole run, since upstream exports
// are known to contain occasional broken lines.
func readCards(path string) ([]types.Card, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	if _, ok := columns["card_name"]; !ok {
		return nil, 0, fmt.Errorf("export is missing the card_name column")
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var cards []types.Card
	var skipped int
	for rowNum := 0; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(row) != len(header) {
			skipped++
			continue
		}

		text := field(row, "text")
		cards = append(cards, types.Card{
			ID:           fmt.Sprintf("card_%d", rowNum),
			Name:         field(row, "card_name"),
			Civilization: field(row, "civilization"),
			ColorType:    field(row, "color_type"),
			CardType:     field(row, "card_type"),
			Cost:         types.ParseCost(field(row, "cost")),
			Power:        field(row, "power"),
			Race:         field(row, "race"),
			Text:         text,
			Tags:         tagger.Tag(text),
		})
	}

	return cards, skipped, nil
}
