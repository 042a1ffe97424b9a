package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/card-catalog-search/internal/embeddings"
	"github.com/lox/card-catalog-search/internal/extractor"
	"github.com/lox/card-catalog-search/internal/keywords"
	"github.com/lox/card-catalog-search/internal/llm"
)

// SetupLogger creates a logger writing to stderr at the configured level
func SetupLogger(config CommonConfig) (*log.Logger, error) {
	logger := log.New(os.Stderr)
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)
	return logger, nil
}

// SetupVectorStore initializes the persistent card embedding index
func SetupVectorStore(
	ctx context.Context,
	dataDir string,
	provider embeddings.EmbeddingProvider,
	logger *log.Logger,
) (embeddings.VectorStore, error) {
	store, err := embeddings.NewChromemStore(dataDir, provider, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}
	return store, nil
}

// SetupLLMClient initializes the chat client used for condition extraction
func SetupLLMClient(config LLMConfig, logger *log.Logger) (llm.Client, error) {
	if config.LLMAPIKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}
	client, err := llm.NewOpenAIClient(llm.NewOpenAIConfig().
		WithAPIKey(config.LLMAPIKey).
		WithModel(config.LLMModel).
		WithEndpoint(config.LLMEndpoint).
		WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}
	logger.Info("Using chat completion API for extraction", "model", config.LLMModel, "endpoint", config.LLMEndpoint)
	return client, nil
}

// SetupVocabulary loads the official keyword list (required) and the domain
// glossary (optional; a missing glossary only degrades prompt quality).
func SetupVocabulary(config VocabularyConfig, logger *log.Logger) (*keywords.List, extractor.Glossary, error) {
	list, err := keywords.Load(config.KeywordsFile)
	if err != nil {
		return nil, extractor.Glossary{}, fmt.Errorf("failed to load keyword list: %w", err)
	}
	logger.Info("Loaded official keyword list", "keywords", list.Len())

	glossary, err := extractor.LoadGlossary(config.GlossaryFile)
	if err != nil {
		logger.Warn("Glossary not available, extraction prompts will be less precise", "error", err)
		glossary = extractor.Glossary{}
	}

	return list, glossary, nil
}
