package types

// FilterSpec is the structured query extracted from a natural-language
// search request. All string conditions are substring tests against
// string-coerced card fields; absent fields never match.
type FilterSpec struct {
	CostMin *int `json:"cost_min"`
	CostMax *int `json:"cost_max"`

	Civilizations []string `json:"civilizations"`
	CardTypes     []string `json:"card_types"`

	// Keywords may only contain entries from the official keyword list.
	// Slang terms belong in EffectGroups instead.
	Keywords     []string `json:"keywords"`
	RaceKeywords []string `json:"race_keywords"`

	// EffectGroups are OR-sets of rules-text fragments; groups combine
	// with AND across the sequence.
	EffectGroups [][]string `json:"effect_groups"`

	ExcludeKeywords []string `json:"exclude_keywords"`

	// GeneralSearch terms must each match at least one card field
	// (name, civilization, color type, card type, cost, power, race, text).
	GeneralSearch []string `json:"general_search"`
}

// IsEmpty reports whether the spec contains no conditions at all.
func (s FilterSpec) IsEmpty() bool {
	return s.CostMin == nil && s.CostMax == nil &&
		len(s.Civilizations) == 0 &&
		len(s.CardTypes) == 0 &&
		len(s.Keywords) == 0 &&
		len(s.RaceKeywords) == 0 &&
		len(s.EffectGroups) == 0 &&
		len(s.ExcludeKeywords) == 0 &&
		len(s.GeneralSearch) == 0
}
