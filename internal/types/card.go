package types

import (
	"strconv"
	"strings"
)

// Card represents a single catalog entry. Records are immutable once loaded
// and a Card's ID is the join key into the embedding index.
type Card struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Civilization string   `json:"civilization"` // multi-civilization cards join values with "/"
	ColorType    string   `json:"color_type,omitempty"`
	CardType     string   `json:"card_type"`
	Cost         *int     `json:"cost,omitempty"` // nil when absent or unparseable
	Power        string   `json:"power,omitempty"`
	Race         string   `json:"race,omitempty"`
	Text         string   `json:"text,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// ParseCost parses a raw cost value into an optional numeric cost.
// Values like "∞" or "-" are not numeric and map to nil rather than zero.
func ParseCost(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// CostString returns the cost as a string for display and general search,
// or an empty string when the cost is absent.
func (c Card) CostString() string {
	if c.Cost == nil {
		return ""
	}
	return strconv.Itoa(*c.Cost)
}
