package extractor

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// TermGroup collects the ways one game concept is written: the formal
// rules-text phrasings, any official keyword abilities that imply it, and
// player slang for it.
type TermGroup struct {
	Formal           []string `json:"formal"`
	KeywordAbilities []string `json:"keyword_abilities,omitempty"`
	Slang            []string `json:"slang,omitempty"`
}

// SlangEntry explains a community slang term.
type SlangEntry struct {
	Description string `json:"description"`
}

// Glossary is the externally maintained synonym mapping used to enrich the
// extraction prompt. It never participates in filtering directly.
type Glossary struct {
	ResourceGain map[string]TermGroup  `json:"resource_gain"`
	Removal      map[string]TermGroup  `json:"removal"`
	Slang        map[string]SlangEntry `json:"slang"`
}

// LoadGlossary reads the glossary JSON file. A missing glossary degrades
// prompt quality but is not fatal, so callers should treat errors as a
// warning and continue with an empty glossary.
func LoadGlossary(path string) (Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Glossary{}, fmt.Errorf("failed to read glossary: %w", err)
	}
	var g Glossary
	if err := json.Unmarshal(data, &g); err != nil {
		return Glossary{}, fmt.Errorf("failed to parse glossary: %w", err)
	}
	return g, nil
}

// IsEmpty reports whether the glossary has no content at all.
func (g Glossary) IsEmpty() bool {
	return len(g.ResourceGain) == 0 && len(g.Removal) == 0 && len(g.Slang) == 0
}

// resource-gain and removal concepts shown in the prompt, in a fixed order
// so the prompt is stable across runs
var (
	resourceGainConcepts = []string{"mana", "hand", "graveyard"}
	removalConcepts      = []string{"destroy", "bounce", "deck"}
	slangExamples        = []string{"ramp", "bounce", "hand rip", "mill"}
)

// BuildExamples renders glossary-derived phrasing examples for the
// extraction prompt.
func (g Glossary) BuildExamples() string {
	if g.IsEmpty() {
		return ""
	}

	var examples []string

	if len(g.ResourceGain) > 0 {
		examples = append(examples, "\n**Resource-gain phrasing variants:**")
		for _, concept := range resourceGainConcepts {
			group, ok := g.ResourceGain[concept]
			if !ok {
				continue
			}
			terms := append(append([]string{}, group.Formal...), group.KeywordAbilities...)
			terms = append(terms, group.Slang...)
			examples = append(examples, fmt.Sprintf("- %s gain: %s", concept, strings.Join(firstN(terms, 5), ", ")))
		}
	}

	if len(g.Removal) > 0 {
		examples = append(examples, "\n**Removal variants by destination:**")
		for _, concept := range removalConcepts {
			group, ok := g.Removal[concept]
			if !ok {
				continue
			}
			terms := append(append([]string{}, group.Formal...), group.Slang...)
			examples = append(examples, fmt.Sprintf("- %s: %s", concept, strings.Join(firstN(terms, 3), ", ")))
		}
	}

	if len(g.Slang) > 0 {
		examples = append(examples, "\n**Common slang:**")
		for _, term := range slangExamples {
			entry, ok := g.Slang[term]
			if !ok {
				continue
			}
			examples = append(examples, fmt.Sprintf("- %s: %s", term, entry.Description))
		}
	}

	return strings.Join(examples, "\n")
}

func firstN(terms []string, n int) []string {
	if len(terms) > n {
		return terms[:n]
	}
	return terms
}
