// Package filter applies a FilterSpec against the card catalog
// deterministically. Stages run in a fixed order and each narrows the
// running candidate set; an absent condition is a no-op stage. All string
// conditions are substring tests on string-coerced field values, and absent
// fields never match.
package filter

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/card-catalog-search/internal/keywords"
	"github.com/lox/card-catalog-search/internal/types"
)

// Engine filters the catalog with well-formed FilterSpecs. The official
// keyword list is consulted again here even though the extractor already
// validates keywords, so a malformed spec from any caller can never turn a
// slang term into a filter condition.
type Engine struct {
	keywords *keywords.List
	logger   *log.Logger
}

// New creates a filter Engine
func New(list *keywords.List, logger *log.Logger) *Engine {
	return &Engine{keywords: list, logger: logger}
}

// Apply returns the cards passing every condition in spec, preserving the
// input order. An empty spec returns the input unchanged.
func (e *Engine) Apply(cards []types.Card, spec types.FilterSpec) []types.Card {
	original := len(cards)

	cards = e.filterCost(cards, spec)
	cards = e.filterCivilizations(cards, spec.Civilizations)
	cards = e.filterCardTypes(cards, spec.CardTypes)
	cards = e.filterKeywords(cards, spec.Keywords)
	cards = e.filterRaceKeywords(cards, spec.RaceKeywords)
	cards = e.filterGeneralSearch(cards, spec.GeneralSearch)
	cards = e.filterEffectGroups(cards, spec.EffectGroups)
	cards = e.filterExcludeKeywords(cards, spec.ExcludeKeywords)

	e.logger.Debug("Filtered catalog", "before", original, "after", len(cards))
	return cards
}

func (e *Engine) filterCost(cards []types.Card, spec types.FilterSpec) []types.Card {
	if spec.CostMin == nil && spec.CostMax == nil {
		return cards
	}
	// Cards without a numeric cost are excluded from range filters, never
	// coerced to zero.
	return keep(cards, func(c types.Card) bool {
		if c.Cost == nil {
			return false
		}
		if spec.CostMin != nil && *c.Cost < *spec.CostMin {
			return false
		}
		if spec.CostMax != nil && *c.Cost > *spec.CostMax {
			return false
		}
		return true
	})
}

func (e *Engine) filterCivilizations(cards []types.Card, civs []string) []types.Card {
	if len(civs) == 0 {
		return cards
	}
	cards = keep(cards, func(c types.Card) bool {
		return containsAny(c.Civilization, civs)
	})
	e.logger.Debug("Applied civilization filter", "civilizations", civs, "remaining", len(cards))
	return cards
}

func (e *Engine) filterCardTypes(cards []types.Card, cardTypes []string) []types.Card {
	if len(cardTypes) == 0 {
		return cards
	}
	return keep(cards, func(c types.Card) bool {
		return containsAny(c.CardType, cardTypes)
	})
}

func (e *Engine) filterKeywords(cards []types.Card, kws []string) []types.Card {
	for _, kw := range kws {
		// The extractor's repair pass should have dropped anything
		// non-official already; skip rather than filter if one slips
		// through.
		if !e.keywords.Contains(kw) {
			e.logger.Warn("Skipping keyword not in the official list", "keyword", kw)
			continue
		}
		kw := kw
		cards = keep(cards, func(c types.Card) bool {
			return c.Text != "" && strings.Contains(c.Text, kw)
		})
		e.logger.Debug("Applied keyword filter", "keyword", kw, "remaining", len(cards))
	}
	return cards
}

func (e *Engine) filterRaceKeywords(cards []types.Card, races []string) []types.Card {
	for _, race := range races {
		race := race
		cards = keep(cards, func(c types.Card) bool {
			return c.Race != "" && strings.Contains(c.Race, race)
		})
	}
	return cards
}

// filterGeneralSearch keeps cards where every term is a substring of at
// least one searchable field (OR across fields, AND across terms).
func (e *Engine) filterGeneralSearch(cards []types.Card, terms []string) []types.Card {
	for _, term := range terms {
		term := term
		cards = keep(cards, func(c types.Card) bool {
			for _, field := range searchableFields(c) {
				if field != "" && strings.Contains(field, term) {
					return true
				}
			}
			return false
		})
	}
	return cards
}

// filterEffectGroups keeps cards whose rules text contains at least one
// member of every group (OR within a group, AND across groups).
func (e *Engine) filterEffectGroups(cards []types.Card, groups [][]string) []types.Card {
	for _, group := range groups {
		group := group
		cards = keep(cards, func(c types.Card) bool {
			if c.Text == "" {
				return false
			}
			for _, fragment := range group {
				if strings.Contains(c.Text, fragment) {
					return true
				}
			}
			return false
		})
	}
	return cards
}

func (e *Engine) filterExcludeKeywords(cards []types.Card, excludes []string) []types.Card {
	for _, exclude := range excludes {
		exclude := exclude
		cards = keep(cards, func(c types.Card) bool {
			return c.Text == "" || !strings.Contains(c.Text, exclude)
		})
	}
	return cards
}

// searchableFields lists the string-coerced fields consulted by general
// search: name, civilization, color type, card type, cost, power, race and
// rules text.
func searchableFields(c types.Card) [8]string {
	return [8]string{
		c.Name,
		c.Civilization,
		c.ColorType,
		c.CardType,
		c.CostString(),
		c.Power,
		c.Race,
		c.Text,
	}
}

func containsAny(field string, terms []string) bool {
	if field == "" {
		return false
	}
	for _, term := range terms {
		if strings.Contains(field, term) {
			return true
		}
	}
	return false
}

func keep(cards []types.Card, pred func(types.Card) bool) []types.Card {
	out := make([]types.Card, 0, len(cards))
	for _, c := range cards {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}
