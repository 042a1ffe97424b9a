package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/card-catalog-search/internal/embeddings"
)

// SetupEmbeddingProvider initializes and returns an embedding provider based on the config
func SetupEmbeddingProvider(ctx context.Context, config EmbeddingConfig, logger *log.Logger) (embeddings.EmbeddingProvider, error) {
	switch config.Provider {
	case "openai":
		if config.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai api key is required when using OpenAI embeddings")
		}
		openaiConfig := embeddings.NewOpenAIConfig().
			WithAPIKey(config.OpenAIAPIKey).
			WithModelName(config.OpenAIModel).
			WithLogger(logger)
		if config.OpenAIEndpoint != "" {
			openaiConfig = openaiConfig.WithEndpoint(config.OpenAIEndpoint)
		}
		provider, err := embeddings.NewOpenAIEmbeddingProvider(openaiConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI embedding provider: %w", err)
		}
		logger.Info("Using OpenAI-compatible API for embeddings", "model", openaiConfig.ModelName, "endpoint", openaiConfig.Endpoint)
		return provider, nil

	case "ollama":
		// Ollama exposes an OpenAI-compatible API
		provider, err := embeddings.NewOpenAIEmbeddingProvider(embeddings.NewOpenAIConfig().
			WithAPIKey("dummy").
			WithModelName(config.OllamaModel).
			WithEndpoint(config.OllamaEndpoint).
			WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama embedding provider: %w", err)
		}
		logger.Info("Using Ollama for embeddings", "model", config.OllamaModel, "endpoint", config.OllamaEndpoint)
		return provider, nil

	case "lmstudio":
		// LMStudio also exposes an OpenAI-compatible API
		provider, err := embeddings.NewOpenAIEmbeddingProvider(embeddings.NewOpenAIConfig().
			WithAPIKey("dummy").
			WithModelName(config.LMStudioModel).
			WithEndpoint(config.LMStudioEndpoint).
			WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create LMStudio embedding provider: %w", err)
		}
		logger.Info("Using LMStudio for embeddings", "model", config.LMStudioModel, "endpoint", config.LMStudioEndpoint)
		return provider, nil

	case "gemini":
		if config.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini api key is required when using Gemini embeddings")
		}
		geminiConfig := embeddings.NewGeminiConfig().
			WithAPIKey(config.GeminiAPIKey).
			WithLogger(logger)
		if config.GeminiModel != "" {
			geminiConfig = geminiConfig.WithModelName(config.GeminiModel)
		}
		provider, err := embeddings.NewGeminiEmbeddingProvider(ctx, geminiConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini embedding provider: %w", err)
		}
		logger.Info("Using Gemini API for embeddings", "model", geminiConfig.ModelName)
		return provider, nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", config.Provider)
	}
}

// CloseEmbeddingProvider attempts to close the embedding provider if it implements Close
func CloseEmbeddingProvider(provider embeddings.EmbeddingProvider, logger *log.Logger) {
	if closer, ok := provider.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close embedding provider", "error", err)
		}
	}
}
