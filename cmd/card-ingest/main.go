package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lox/card-catalog-search/internal/catalog"
	"github.com/lox/card-catalog-search/internal/commands"
	"github.com/lox/card-catalog-search/internal/ingest"
)

type CLI struct {
	commands.CommonConfig
	commands.EmbeddingConfig

	CSV         string `arg:"" help:"Path to the card CSV export" type:"existingfile"`
	Concurrency int    `help:"Number of concurrent embedding requests" default:"4"`
	Progress    bool   `help:"Show a progress bar" default:"true" negatable:""`
	Limit       int    `help:"Only ingest the first N cards (0 = all)" default:"0"`
}

func (c *CLI) Run() error {
	ctx := context.Background()

	logger, err := commands.SetupLogger(c.CommonConfig)
	if err != nil {
		return err
	}

	store, err := catalog.New(c.DataDir, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	provider, err := commands.SetupEmbeddingProvider(ctx, c.EmbeddingConfig, logger)
	if err != nil {
		return err
	}
	defer commands.CloseEmbeddingProvider(provider, logger)

	vectors, err := commands.SetupVectorStore(ctx, c.DataDir, provider, logger)
	if err != nil {
		return err
	}
	defer vectors.Close()

	ingester := ingest.New(logger, store, provider, vectors)
	count, err := ingester.IngestCSV(ctx, c.CSV, ingest.Config{
		Concurrency: c.Concurrency,
		Progress:    c.Progress,
		Limit:       c.Limit,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %d cards\n", count)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("card-ingest"),
		kong.Description("Build the card catalog and embedding index from a CSV export"),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
