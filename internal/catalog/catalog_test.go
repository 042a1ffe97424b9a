package catalog

import (
	"testing"

	"github.com/lox/card-catalog-search/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSnapshot(t *testing.T) {
	cat := NewCatalog([]types.Card{
		{ID: "card_0", Name: "First"},
		{ID: "card_1", Name: "Second"},
	})

	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, 0, cat.Position("card_0"))
	assert.Equal(t, 1, cat.Position("card_1"))
	assert.Equal(t, -1, cat.Position("unknown"))

	card, ok := cat.ByID("card_1")
	require.True(t, ok)
	assert.Equal(t, "Second", card.Name)

	_, ok = cat.ByID("unknown")
	assert.False(t, ok)
}

func TestEmptyCatalog(t *testing.T) {
	cat := NewCatalog(nil)
	assert.Equal(t, 0, cat.Len())
	assert.Empty(t, cat.All())
}
