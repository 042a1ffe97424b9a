package types

// SearchScore breaks down how a ranked card earned its position
type SearchScore struct {
	// VectorScore is the cosine similarity between the query embedding
	// and the card embedding, in [-1, 1]
	VectorScore float64 `json:"vector_score"`
	// BonusScore is the accumulated exact-match bonus, always >= 0
	BonusScore float64 `json:"bonus_score"`
}

// Total is the final ranking score
func (s SearchScore) Total() float64 {
	return s.VectorScore + s.BonusScore
}

// CardSearchResult is a card together with its ranking scores
type CardSearchResult struct {
	Card
	Scores SearchScore `json:"scores"`
}

// SearchResults is the full outcome of one search request
type SearchResults struct {
	Results []CardSearchResult `json:"results"`
	// TotalCandidates is the number of cards that passed filtering,
	// before the top-k cut
	TotalCandidates int `json:"total_candidates"`
	Limit           int `json:"limit"`
}
