package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lox/card-catalog-search/internal/commands"
	"github.com/lox/card-catalog-search/internal/mcp"
)

type CLI struct {
	commands.CommonConfig
	commands.EmbeddingConfig
	commands.LLMConfig
	commands.VocabularyConfig
}

func (c *CLI) Run() error {
	ctx := context.Background()

	logger, err := commands.SetupLogger(c.CommonConfig)
	if err != nil {
		return err
	}

	s, cat, cleanup, err := commands.SetupSearchEngine(ctx, commands.SearchEngineConfig{
		DataDir:    c.DataDir,
		Embedding:  c.EmbeddingConfig,
		LLM:        c.LLMConfig,
		Vocabulary: c.VocabularyConfig,
	}, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("Starting MCP server")
	return mcp.New(cat, s, logger).Run()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("card-mcp-server"),
		kong.Description("Serve the card search engine over MCP stdio"),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
