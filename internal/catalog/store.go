// Package catalog persists the card catalog and exposes an immutable
// in-memory snapshot of it. The snapshot is loaded once at startup and
// shared read-only across concurrent searches; the SQLite store is only
// written by the offline ingestion pipeline.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/charmbracelet/log"
	"github.com/lox/card-catalog-search/internal/types"
)

// Store is the SQLite-backed card catalog
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// New opens (or creates) the card catalog database under dataDir
func New(dataDir string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "cards.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	return &Store{db: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	// rowid doubles as the catalog's natural order, so updates must keep
	// the original row rather than delete-and-reinsert.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			civilization TEXT NOT NULL,
			color_type TEXT,
			card_type TEXT NOT NULL,
			cost INTEGER,
			power TEXT,
			race TEXT,
			text TEXT,
			tags TEXT
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create cards table: %v", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_cards_civilization ON cards(civilization)",
		"CREATE INDEX IF NOT EXISTS idx_cards_card_type ON cards(card_type)",
		"CREATE INDEX IF NOT EXISTS idx_cards_cost ON cards(cost)",
	}
	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %v", err)
		}
	}

	return nil
}

// Put inserts or updates a card
func (s *Store) Put(ctx context.Context, card types.Card) error {
	s.logger.Debug("Storing card", "id", card.ID, "name", card.Name)

	var cost sql.NullInt64
	if card.Cost != nil {
		cost = sql.NullInt64{Int64: int64(*card.Cost), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (id, name, civilization, color_type, card_type, cost, power, race, text, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			civilization = excluded.civilization,
			color_type = excluded.color_type,
			card_type = excluded.card_type,
			cost = excluded.cost,
			power = excluded.power,
			race = excluded.race,
			text = excluded.text,
			tags = excluded.tags
	`,
		card.ID, card.Name, card.Civilization, card.ColorType, card.CardType,
		cost, card.Power, card.Race, card.Text, joinTags(card.Tags),
	)
	if err != nil {
		return fmt.Errorf("failed to store card: %v", err)
	}
	return nil
}

// GetByID fetches a single card by its stable ID
func (s *Store) GetByID(ctx context.Context, id string) (*types.Card, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, civilization, color_type, card_type, cost, power, race, text, tags
		FROM cards WHERE id = ?
	`, id)
	card, err := scanCard(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("card not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %v", err)
	}
	return card, nil
}

// Count returns the number of cards in the catalog
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cards").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cards: %v", err)
	}
	return count, nil
}

// LoadAll reads every card in insertion order and returns an immutable
// catalog snapshot
func (s *Store) LoadAll(ctx context.Context) (*Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, civilization, color_type, card_type, cost, power, race, text, tags
		FROM cards ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %v", err)
	}
	defer rows.Close()

	var cards []types.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %v", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %v", err)
	}

	s.logger.Info("Loaded card catalog", "cards", len(cards))
	return NewCatalog(cards), nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (*types.Card, error) {
	var card types.Card
	var colorType, power, race, text, tags sql.NullString
	var cost sql.NullInt64

	err := row.Scan(&card.ID, &card.Name, &card.Civilization, &colorType,
		&card.CardType, &cost, &power, &race, &text, &tags)
	if err != nil {
		return nil, err
	}

	card.ColorType = colorType.String
	card.Power = power.String
	card.Race = race.String
	card.Text = text.String
	card.Tags = splitTags(tags.String)
	if cost.Valid {
		n := int(cost.Int64)
		card.Cost = &n
	}
	return &card, nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, "\n")
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}
