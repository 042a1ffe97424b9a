package catalog

import "github.com/lox/card-catalog-search/internal/types"

// Catalog is an immutable, ordered snapshot of the card catalog. Positions
// follow insertion order and are used as the deterministic ranking
// tie-breaker.
type Catalog struct {
	cards    []types.Card
	position map[string]int
}

// NewCatalog builds a snapshot from cards in their natural order.
func NewCatalog(cards []types.Card) *Catalog {
	position := make(map[string]int, len(cards))
	for i, card := range cards {
		position[card.ID] = i
	}
	return &Catalog{cards: cards, position: position}
}

// All returns every card in insertion order. Callers must not modify the
// returned slice.
func (c *Catalog) All() []types.Card {
	return c.cards
}

// ByID returns the card with the given ID, if present.
func (c *Catalog) ByID(id string) (types.Card, bool) {
	i, ok := c.position[id]
	if !ok {
		return types.Card{}, false
	}
	return c.cards[i], true
}

// Position returns the card's place in the catalog's natural order, or -1
// when the ID is unknown.
func (c *Catalog) Position(id string) int {
	i, ok := c.position[id]
	if !ok {
		return -1
	}
	return i
}

// Len returns the number of cards in the snapshot.
func (c *Catalog) Len() int {
	return len(c.cards)
}
