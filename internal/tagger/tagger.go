// Package tagger pre-labels cards by matching rules text against a fixed
// regex rule table. Tags are computed once at ingestion time and stored on
// the card record.
package tagger

import (
	"regexp"

	"golang.org/x/exp/slices"
)

type rule struct {
	tag      string
	patterns []*regexp.Regexp
}

func newRule(tag string, patterns ...string) rule {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		// Rules text capitalizes sentence-initial words, so all patterns
		// match case-insensitively.
		compiled[i] = regexp.MustCompile(`(?i)` + p)
	}
	return rule{tag: tag, patterns: compiled}
}

// General ability rules, applied in order so tag output is deterministic.
var abilityRules = []rule{
	newRule("shield trigger", `Shield Trigger`),
	newRule("draw", `draw (a card|\d+ cards?)`, `draw up to \d+ cards?`, `draws? cards?`),
	newRule("mana boost", `put .* into your mana zone`),
	newRule("mana retrieval", `from your mana zone .* to your hand`),
	newRule("grave retrieval", `from your graveyard .* to your hand`),
	newRule("mill", `top \d+ cards? of your deck .* graveyard`),
	newRule("search (card)", `search your deck .* to your hand`),
	newRule("search (creature)", `search your deck .* creature .* to your hand`),
	newRule("search (spell)", `search your deck .* spell .* to your hand`),
	newRule("hand disruption", `opponent discards`, `opponent .* discards? .* cards?`),
	newRule("land destruction", `opponent's mana zone .* graveyard`),
	newRule("shield manipulation", `add .* shields?`, `shields? .* graveyard`, `shields? .* to your hand`),
	newRule("cost cheat", `without paying its cost`, `for no cost`),
	newRule("deck out", `top \d+ cards? of your opponent's deck .* graveyard`),
	newRule("targeted (creature)", `choose .* creatures?`),
}

// Removal rules keyed by destination zone. Each destination is a distinct
// tag because "remove to mana" and "remove to hand" play very differently.
var removalRules = []rule{
	newRule("removal (destroy)", `destroy`),
	newRule("removal (bounce)", `return .* to (its owner's|your) hand`),
	newRule("removal (mana)", `put .* (that creature|opponent's creature) into (its owner's|the) mana zone`),
	newRule("removal (shield)", `shield it face down`, `into (its owner's|the) shield zone`),
	newRule("removal (deck)", `(bottom|top) of (its owner's|the) deck`),
}

// Tag returns every tag whose rule matches the rules text, in rule order
// without duplicates. Empty text yields no tags.
func Tag(text string) []string {
	if text == "" {
		return nil
	}

	var tags []string
	for _, r := range append(append([]rule{}, abilityRules...), removalRules...) {
		for _, p := range r.patterns {
			if p.MatchString(text) {
				if !slices.Contains(tags, r.tag) {
					tags = append(tags, r.tag)
				}
				break
			}
		}
	}
	return tags
}
