package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/card-catalog-search/internal/catalog"
	"github.com/lox/card-catalog-search/internal/extractor"
	"github.com/lox/card-catalog-search/internal/filter"
	"github.com/lox/card-catalog-search/internal/ranker"
	"github.com/lox/card-catalog-search/internal/searcher"
)

// SearchEngineConfig aggregates everything needed to stand up the search
// pipeline
type SearchEngineConfig struct {
	DataDir    string
	Embedding  EmbeddingConfig
	LLM        LLMConfig
	Vocabulary VocabularyConfig
}

// SetupSearchEngine wires the full search pipeline: catalog snapshot,
// condition extraction, filtering and ranking. Everything is constructed
// once and read-only afterwards; the returned cleanup releases the
// underlying stores.
func SetupSearchEngine(ctx context.Context, config SearchEngineConfig, logger *log.Logger) (*searcher.Searcher, *catalog.Catalog, func(), error) {
	list, glossary, err := SetupVocabulary(config.Vocabulary, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := catalog.New(config.DataDir, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	cat, err := store.LoadAll(ctx)
	if err != nil {
		store.Close()
		return nil, nil, nil, err
	}
	if cat.Len() == 0 {
		store.Close()
		return nil, nil, nil, fmt.Errorf("the card catalog is empty; run card-ingest first")
	}

	provider, err := SetupEmbeddingProvider(ctx, config.Embedding, logger)
	if err != nil {
		store.Close()
		return nil, nil, nil, err
	}

	vectors, err := SetupVectorStore(ctx, config.DataDir, provider, logger)
	if err != nil {
		CloseEmbeddingProvider(provider, logger)
		store.Close()
		return nil, nil, nil, err
	}

	llmClient, err := SetupLLMClient(config.LLM, logger)
	if err != nil {
		CloseEmbeddingProvider(provider, logger)
		vectors.Close()
		store.Close()
		return nil, nil, nil, err
	}

	s := searcher.New(
		cat,
		extractor.New(llmClient, list, glossary, logger),
		filter.New(list, logger),
		ranker.New(provider, vectors, logger),
		logger,
	)

	cleanup := func() {
		CloseEmbeddingProvider(provider, logger)
		if err := vectors.Close(); err != nil {
			logger.Warn("Failed to close vector store", "error", err)
		}
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close catalog store", "error", err)
		}
	}
	return s, cat, cleanup, nil
}
