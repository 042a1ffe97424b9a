// Package mcp exposes the card search engine over the Model Context
// Protocol. It is a thin front end: presentation only, with the search
// pipeline behind the searcher package.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/card-catalog-search/internal/catalog"
	"github.com/lox/card-catalog-search/internal/searcher"
	"github.com/lox/card-catalog-search/internal/types"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type Server struct {
	catalog  *catalog.Catalog
	searcher *searcher.Searcher
	logger   *log.Logger
}

func New(cat *catalog.Catalog, s *searcher.Searcher, logger *log.Logger) *Server {
	return &Server{
		catalog:  cat,
		searcher: s,
		logger:   logger,
	}
}

func (s *Server) Run() error {
	mcpServer := server.NewMCPServer(
		"Card Catalog Search",
		"1.0.0",
	)

	mcpServer.AddTool(mcp.NewTool("search_cards",
		mcp.WithDescription("Search the card catalog with a natural-language query"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("What you're looking for, e.g. 'cheap fire creatures with speed attacker'"),
		),
		mcp.WithString("limit",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
	), s.searchCardsHandler)

	mcpServer.AddTool(mcp.NewTool("get_card",
		mcp.WithDescription("Fetch a single card by its catalog ID"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The card's catalog ID"),
		),
	), s.getCardHandler)

	return server.ServeStdio(mcpServer)
}

func (s *Server) searchCardsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, ok := request.Params.Arguments["query"].(string)
	if !ok {
		return nil, errors.New("query must be a string")
	}

	limit := 10
	if limitVal, ok := request.Params.Arguments["limit"]; ok {
		switch v := limitVal.(type) {
		case int:
			limit = v
		case float64:
			limit = int(v)
		case string:
			var err error
			limit, err = strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("limit must be a valid integer: %w", err)
			}
		default:
			return nil, errors.New("limit must be a number or string")
		}
	}

	results, err := s.searcher.Search(ctx, query, limit)
	if errors.Is(err, searcher.ErrNoMatches) {
		return mcp.NewToolResultText("No cards matched the search conditions."), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search cards: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d matching cards (showing %d):\n\n", results.TotalCandidates, len(results.Results))
	for i, result := range results.Results {
		fmt.Fprintf(&sb, "[%d] %s (score: %.2f)\n", i+1, result.Name, result.Scores.Total())
		writeCard(&sb, result.Card)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) getCardHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := request.Params.Arguments["id"].(string)
	if !ok {
		return nil, errors.New("id must be a string")
	}

	card, ok := s.catalog.ByID(id)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("No card with ID %q.", id)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", card.Name)
	writeCard(&sb, card)
	return mcp.NewToolResultText(sb.String()), nil
}

func writeCard(sb *strings.Builder, card types.Card) {
	fmt.Fprintf(sb, "  Civilization: %s | Type: %s\n", card.Civilization, card.CardType)
	fmt.Fprintf(sb, "  Cost: %s | Power: %s\n", orDash(card.CostString()), orDash(card.Power))
	if card.Race != "" {
		fmt.Fprintf(sb, "  Race: %s\n", card.Race)
	}
	if card.Text != "" {
		fmt.Fprintf(sb, "  Text: %s\n", truncate(card.Text, 200))
	}
	if len(card.Tags) > 0 {
		fmt.Fprintf(sb, "  Tags: %s\n", strings.Join(card.Tags, ", "))
	}
	sb.WriteString("\n")
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
