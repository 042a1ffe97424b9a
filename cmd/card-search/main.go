package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lox/card-catalog-search/internal/commands"
	"github.com/lox/card-catalog-search/internal/searcher"
	"github.com/lox/card-catalog-search/internal/types"
)

type CLI struct {
	commands.CommonConfig
	commands.EmbeddingConfig
	commands.LLMConfig
	commands.VocabularyConfig

	Query      string `arg:"" optional:"" help:"Search query; omit for interactive mode"`
	TopK       int    `help:"Maximum number of ranked results" default:"50"`
	MaxDisplay int    `help:"Number of results to display" default:"10"`
}

func (c *CLI) Run() error {
	ctx := context.Background()

	logger, err := commands.SetupLogger(c.CommonConfig)
	if err != nil {
		return err
	}

	s, _, cleanup, err := commands.SetupSearchEngine(ctx, commands.SearchEngineConfig{
		DataDir:    c.DataDir,
		Embedding:  c.EmbeddingConfig,
		LLM:        c.LLMConfig,
		Vocabulary: c.VocabularyConfig,
	}, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if c.Query != "" {
		return c.runQuery(ctx, s, c.Query)
	}
	return c.runInteractive(ctx, s)
}

func (c *CLI) runQuery(ctx context.Context, s *searcher.Searcher, query string) error {
	results, err := s.Search(ctx, query, c.TopK)
	if errors.Is(err, searcher.ErrNoMatches) {
		fmt.Println("No cards matched the search conditions.")
		return nil
	}
	if err != nil {
		return err
	}
	c.printResults(results)
	return nil
}

func (c *CLI) runInteractive(ctx context.Context, s *searcher.Searcher) error {
	fmt.Println("Interactive card search. Type a query, or 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("search> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "end" {
			return nil
		}
		if err := c.runQuery(ctx, s, query); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

func (c *CLI) printResults(results types.SearchResults) {
	fmt.Printf("Found %d matching cards\n\n", results.TotalCandidates)

	display := results.Results
	if len(display) > c.MaxDisplay {
		display = display[:c.MaxDisplay]
	}

	for i, result := range display {
		fmt.Printf("[%d] %s (score: %.3f)\n", i+1, result.Name, result.Scores.Total())
		fmt.Printf("    Civilization: %s | Type: %s\n", result.Civilization, result.CardType)
		fmt.Printf("    Cost: %s | Power: %s\n", orDash(result.CostString()), orDash(result.Power))
		if result.Race != "" {
			fmt.Printf("    Race: %s\n", result.Race)
		}
		if result.Text != "" {
			fmt.Printf("    Text: %s\n", truncate(result.Text, 200))
		}
		fmt.Println()
	}

	if len(results.Results) > len(display) {
		fmt.Printf("... %d more\n", len(results.Results)-len(display))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("card-search"),
		kong.Description("Hybrid natural-language search over the card catalog"),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
