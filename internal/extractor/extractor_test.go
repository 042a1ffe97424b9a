package extractor

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/card-catalog-search/internal/keywords"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLLMClient returns a canned response and records the prompts it saw
type MockLLMClient struct {
	response string
	err      error

	lastSystemPrompt string
	lastUserPrompt   string
}

func (m *MockLLMClient) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	m.lastSystemPrompt = systemPrompt
	m.lastUserPrompt = userPrompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func newTestExtractor(client *MockLLMClient) *Extractor {
	logger := log.New(io.Discard)
	list := keywords.NewList([]string{"Blocker", "Speed Attacker", "Shield Trigger", "Revolution Change"})
	return New(client, list, Glossary{}, logger)
}

func TestExtract(t *testing.T) {
	client := &MockLLMClient{response: `{
		"cost_min": null,
		"cost_max": 3,
		"civilizations": ["Fire"],
		"card_types": ["Creature"],
		"keywords": ["Speed Attacker"],
		"race_keywords": [],
		"effect_groups": [["into your mana zone", "add to your mana"]],
		"exclude_keywords": [],
		"general_search": []
	}`}

	spec, err := newTestExtractor(client).Extract(context.Background(), "cheap fire speed attacker with mana boost")
	require.NoError(t, err)

	require.NotNil(t, spec.CostMax)
	assert.Equal(t, 3, *spec.CostMax)
	assert.Nil(t, spec.CostMin)
	assert.Equal(t, []string{"Fire"}, spec.Civilizations)
	assert.Equal(t, []string{"Creature"}, spec.CardTypes)
	assert.Equal(t, []string{"Speed Attacker"}, spec.Keywords)
	assert.Equal(t, [][]string{{"into your mana zone", "add to your mana"}}, spec.EffectGroups)
}

func TestExtractStripsCodeFence(t *testing.T) {
	client := &MockLLMClient{response: "Here you go:\n```json\n{\"civilizations\": [\"Light\"]}\n```"}

	spec, err := newTestExtractor(client).Extract(context.Background(), "light cards")
	require.NoError(t, err)
	assert.Equal(t, []string{"Light"}, spec.Civilizations)
}

func TestExtractLLMFailure(t *testing.T) {
	client := &MockLLMClient{err: errors.New("connection refused")}

	_, err := newTestExtractor(client).Extract(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "condition extraction failed")
}

func TestExtractMalformedResponseDegradesToEmptySpec(t *testing.T) {
	client := &MockLLMClient{response: "I could not determine any conditions, sorry!"}

	spec, err := newTestExtractor(client).Extract(context.Background(), "something vague")
	require.NoError(t, err)
	assert.True(t, spec.IsEmpty())
}

func TestExtractDropsNonOfficialKeywords(t *testing.T) {
	client := &MockLLMClient{response: `{"keywords": ["Speed Attacker", "Land Destruction", "Bounce"]}`}

	spec, err := newTestExtractor(client).Extract(context.Background(), "land destruction")
	require.NoError(t, err)
	assert.Equal(t, []string{"Speed Attacker"}, spec.Keywords)
}

func TestExtractFlattensOverNestedEffectGroup(t *testing.T) {
	client := &MockLLMClient{response: `{"effect_groups": [[["destroy", "into the graveyard"]]]}`}

	spec, err := newTestExtractor(client).Extract(context.Background(), "removal")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"destroy", "into the graveyard"}}, spec.EffectGroups)
}

func TestExtractDiscardsInvalidEffectGroups(t *testing.T) {
	client := &MockLLMClient{response: `{"effect_groups": [["draw"], [1, 2], "not an array", []]}`}

	spec, err := newTestExtractor(client).Extract(context.Background(), "draw")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"draw"}}, spec.EffectGroups)
}

func TestExtractTruncatesFractionalCostBounds(t *testing.T) {
	client := &MockLLMClient{response: `{"cost_min": 2.0, "cost_max": 6.9}`}

	spec, err := newTestExtractor(client).Extract(context.Background(), "midrange")
	require.NoError(t, err)
	require.NotNil(t, spec.CostMin)
	require.NotNil(t, spec.CostMax)
	assert.Equal(t, 2, *spec.CostMin)
	assert.Equal(t, 6, *spec.CostMax)
}

func TestBuildPromptIncludesQueryAndKeywords(t *testing.T) {
	client := &MockLLMClient{response: `{}`}
	e := newTestExtractor(client)

	_, err := e.Extract(context.Background(), "revolution change dragon")
	require.NoError(t, err)

	assert.Contains(t, client.lastUserPrompt, `"revolution change dragon"`)
	assert.Contains(t, client.lastUserPrompt, "Revolution Change")
	assert.Contains(t, client.lastUserPrompt, "official keyword abilities")
	assert.Contains(t, client.lastSystemPrompt, "card search system")
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"json_fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare_fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose_around_fence", "Sure!\n```json\n{}\n```\nLet me know.", `{}`},
		{"unclosed_fence", "```json\n{}", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFence(tt.input))
		})
	}
}
