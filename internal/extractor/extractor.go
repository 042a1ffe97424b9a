// Package extractor turns a natural-language card query into a structured
// FilterSpec via an LLM call. The model's output is untrusted: it is parsed
// defensively and run through a repair pass so the filter engine and ranker
// only ever see well-formed specs.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/card-catalog-search/internal/keywords"
	"github.com/lox/card-catalog-search/internal/llm"
	"github.com/lox/card-catalog-search/internal/types"
)

const (
	systemPrompt = "You are a card search system for a trading card game. Use the glossary to map player phrasing to rules text, and extract search conditions precisely. Output only JSON, no explanations."

	// Low temperature: extraction should be as deterministic as the
	// model allows.
	extractionTemperature = 0.1

	keywordsPerLine = 10
)

// Extractor extracts structured filter conditions from free-text queries
type Extractor struct {
	llm      llm.Client
	keywords *keywords.List
	glossary Glossary
	logger   *log.Logger
}

// New creates an Extractor with explicit dependencies
func New(client llm.Client, list *keywords.List, glossary Glossary, logger *log.Logger) *Extractor {
	return &Extractor{
		llm:      client,
		keywords: list,
		glossary: glossary,
		logger:   logger,
	}
}

// Extract derives a FilterSpec from the query. Malformed model output is
// repaired or degraded to an empty spec and never returned as an error;
// only a failing LLM call produces a non-nil error.
func (e *Extractor) Extract(ctx context.Context, query string) (types.FilterSpec, error) {
	start := time.Now()
	e.logger.Debug("Extracting search conditions", "query", query)

	response, err := e.llm.Complete(ctx, systemPrompt, e.buildPrompt(query), extractionTemperature)
	if err != nil {
		return types.FilterSpec{}, fmt.Errorf("condition extraction failed: %w", err)
	}

	raw, err := parseRawSpec(response)
	if err != nil {
		e.logger.Warn("Failed to parse extraction response, proceeding without conditions",
			"error", err,
			"response_prefix", prefix(response, 200))
		return types.FilterSpec{}, nil
	}

	spec := e.repair(raw)
	e.logger.Debug("Extracted search conditions",
		"query", query,
		"spec", spec,
		"duration", time.Since(start))
	return spec, nil
}

// buildPrompt assembles the extraction prompt: the query, the full official
// keyword list chunked for readability, glossary examples, and the
// extraction rules.
func (e *Extractor) buildPrompt(query string) string {
	var keywordList strings.Builder
	if e.keywords.Len() > 0 {
		keywordList.WriteString("**Complete list of official keyword abilities:**\n")
		for _, chunk := range e.keywords.Chunk(keywordsPerLine) {
			keywordList.WriteString("- " + strings.Join(chunk, ", ") + "\n")
		}
	}

	return fmt.Sprintf(`Extract card search conditions from the user's query.

Search query: "%s"

Return the conditions in this exact JSON shape:

{
  "cost_min": null,
  "cost_max": null,
  "civilizations": [],
  "card_types": [],
  "keywords": [],
  "race_keywords": [],
  "effect_groups": [],
  "exclude_keywords": [],
  "general_search": []
}

%s

**Use the glossary for reference:**
%s

**Important rules:**

1. **Self vs opponent (critical):**
   - Unless "opponent" is explicit, resource gain means the player's own.
   - Example: "gains mana" means your own mana grows.
   - Example: "destroy the opponent's mana" targets the opponent (no exclude_keywords needed).

2. **general_search:**
   - Matches against ALL fields (name, civilization, color type, card type, cost, power, race, text).
   - Use it for card names, race names, or anything that may appear anywhere.
   - Example: "Just Diver" -> general_search: ["Just Diver"]
   - Example: "evolution creature" -> general_search: ["Evolution"]
   - Example: "10000 power" -> general_search: ["10000"]

3. **effect_groups usage:**
   - A double array. Each group is an array of strings.
   - OR within a group, AND across groups.
   - Use the glossary phrasing variants.

   Example 1: "gains mana"
   -> effect_groups: [["into your mana zone", "add to your mana", "charger"]]

   Example 2: "adds to hand, mana and graveyard at once"
   -> effect_groups: [
        ["add to your hand", "draw"],
        ["into your mana zone", "add to your mana"],
        ["into the graveyard", "from your graveyard"]
      ]

   Example 3: "revolution change dragon"
   -> keywords: ["Revolution Change"], race_keywords: ["Dragon"], effect_groups: []
   (Keyword abilities go in keywords. effect_groups is only for effect text.)

4. **keywords (critical):**
   - ONLY values from the official keyword ability list above may appear here.
   - Never put anything absent from that list into keywords.
   - Slang (land destruction, bounce, mana boost, search, ...) must NEVER go into keywords.

   Bad:
   - keywords: ["Land Destruction"] (slang, not in the list)
   - keywords: ["Bounce"] (slang, not in the list)

   Good:
   - keywords: ["Revolution Change"] (official keyword)
   - keywords: ["Speed Attacker"] (official keyword)
   - keywords: ["Shield Trigger"] (official keyword)

5. **Civilizations:**
   - "light" -> civilizations: ["Light"]
   - "fire civilization" -> civilizations: ["Fire"]
   - "light shield trigger" -> civilizations: ["Light"], keywords: ["Shield Trigger"]

6. **Races:**
   - race_keywords: strict match against the race field.
   - general_search: broader match across name, race and text.

7. **Slang conversion:**
   - "hand rip" -> effect_groups: [["opponent's hand", "discards"]]
   - "search" -> effect_groups: [["search your deck", "look at your deck"]]
   - "land destruction" -> effect_groups: [["from the opponent's mana zone"]]
   - "bounce" -> effect_groups: [["return to its owner's hand", "back to your hand"]]

8. **Cost shorthand:**
   - "cheap" -> cost_max: 3
   - "midrange" -> cost_min: 4, cost_max: 6
   - "heavy" -> cost_min: 7
   - "cost 3 or less" -> cost_max: 3
   - "cost 5 or more" -> cost_min: 5

9. **Card types:**
   - "spell" -> card_types: ["Spell"]
   - "creature" -> card_types: ["Creature"]
   - "cheap spell" -> card_types: ["Spell"], cost_max: 3

**Output only the JSON. No explanations.**`,
		query, keywordList.String(), e.glossary.BuildExamples())
}

// rawSpec is the tolerant intermediate form of the model's JSON. Cost
// bounds come in as floats and effect groups as raw messages, since both
// arrive in known-malformed shapes often enough to plan for.
type rawSpec struct {
	CostMin         *float64          `json:"cost_min"`
	CostMax         *float64          `json:"cost_max"`
	Civilizations   []string          `json:"civilizations"`
	CardTypes       []string          `json:"card_types"`
	Keywords        []string          `json:"keywords"`
	RaceKeywords    []string          `json:"race_keywords"`
	EffectGroups    []json.RawMessage `json:"effect_groups"`
	ExcludeKeywords []string          `json:"exclude_keywords"`
	GeneralSearch   []string          `json:"general_search"`
}

func parseRawSpec(response string) (rawSpec, error) {
	var raw rawSpec
	if err := json.Unmarshal([]byte(stripCodeFence(response)), &raw); err != nil {
		return rawSpec{}, fmt.Errorf("invalid JSON in extraction response: %w", err)
	}
	return raw, nil
}

// stripCodeFence extracts the first fenced block if the response is wrapped
// in one, otherwise returns the trimmed response unchanged.
func stripCodeFence(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	return strings.TrimSpace(s)
}

// repair turns the tolerant raw form into a well-formed FilterSpec:
// non-official keywords are dropped, one level of effect-group over-nesting
// is flattened, and groups with non-string members are discarded.
func (e *Extractor) repair(raw rawSpec) types.FilterSpec {
	spec := types.FilterSpec{
		CostMin:         toIntBound(raw.CostMin),
		CostMax:         toIntBound(raw.CostMax),
		Civilizations:   raw.Civilizations,
		CardTypes:       raw.CardTypes,
		RaceKeywords:    raw.RaceKeywords,
		ExcludeKeywords: raw.ExcludeKeywords,
		GeneralSearch:   raw.GeneralSearch,
	}

	var removed []string
	for _, kw := range raw.Keywords {
		if e.keywords.Contains(kw) {
			spec.Keywords = append(spec.Keywords, kw)
		} else {
			removed = append(removed, kw)
		}
	}
	if len(removed) > 0 {
		e.logger.Info("Dropped non-official keywords from extraction",
			"removed", removed)
	}

	for _, rawGroup := range raw.EffectGroups {
		group, ok := e.repairEffectGroup(rawGroup)
		if !ok {
			continue
		}
		spec.EffectGroups = append(spec.EffectGroups, group)
	}

	return spec
}

// repairEffectGroup validates a single effect group, flattening one level
// of erroneous extra nesting by taking the first inner group.
func (e *Extractor) repairEffectGroup(raw json.RawMessage) ([]string, bool) {
	var members []any
	if err := json.Unmarshal(raw, &members); err != nil {
		e.logger.Warn("Skipping effect group that is not an array", "group", string(raw))
		return nil, false
	}

	if len(members) > 0 {
		if inner, ok := members[0].([]any); ok {
			e.logger.Warn("Flattening over-nested effect group", "group", string(raw))
			members = inner
		}
	}

	group := make([]string, 0, len(members))
	for _, member := range members {
		s, ok := member.(string)
		if !ok {
			e.logger.Warn("Skipping effect group with non-string member", "group", string(raw))
			return nil, false
		}
		group = append(group, s)
	}
	if len(group) == 0 {
		return nil, false
	}
	return group, true
}

func toIntBound(f *float64) *int {
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

func prefix(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
