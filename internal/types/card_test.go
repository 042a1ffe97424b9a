package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCost(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected *int
	}{
		{"numeric", "5", intPtr(5)},
		{"whitespace", " 3 ", intPtr(3)},
		{"zero", "0", intPtr(0)},
		{"empty", "", nil},
		{"infinity", "∞", nil},
		{"dash", "-", nil},
		{"garbage", "abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCost(tt.raw)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestCostString(t *testing.T) {
	assert.Equal(t, "", Card{}.CostString())
	assert.Equal(t, "7", Card{Cost: intPtr(7)}.CostString())
}

func TestFilterSpecIsEmpty(t *testing.T) {
	assert.True(t, FilterSpec{}.IsEmpty())
	assert.False(t, FilterSpec{Civilizations: []string{"Fire"}}.IsEmpty())
	assert.False(t, FilterSpec{CostMax: intPtr(3)}.IsEmpty())
	assert.False(t, FilterSpec{EffectGroups: [][]string{{"draw"}}}.IsEmpty())
}

func intPtr(n int) *int { return &n }
