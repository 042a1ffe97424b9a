package catalog

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/card-catalog-search/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	store, err := New(t.TempDir(), log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func intPtr(n int) *int { return &n }

func TestPutAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	card := types.Card{
		ID:           "card_0",
		Name:         "Ember Runner",
		Civilization: "Fire",
		ColorType:    "single",
		CardType:     "Creature",
		Cost:         intPtr(2),
		Power:        "2000",
		Race:         "Human",
		Text:         "Speed Attacker",
		Tags:         []string{"shield trigger", "removal (destroy)"},
	}
	require.NoError(t, store.Put(ctx, card))

	got, err := store.GetByID(ctx, "card_0")
	require.NoError(t, err)
	assert.Equal(t, card, *got)
}

func TestGetMissingCard(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetByID(context.Background(), "nope")
	assert.Error(t, err)
}

func TestNilCostRoundTrips(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, types.Card{
		ID:           "card_0",
		Name:         "Boundless Horizon",
		Civilization: "Nature",
		CardType:     "Spell",
	}))

	got, err := store.GetByID(ctx, "card_0")
	require.NoError(t, err)
	assert.Nil(t, got.Cost)
}

func TestLoadAllPreservesInsertionOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	ids := []string{"card_2", "card_0", "card_1"}
	for _, id := range ids {
		require.NoError(t, store.Put(ctx, types.Card{
			ID: id, Name: id, Civilization: "Fire", CardType: "Creature",
		}))
	}

	cat, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, cat.Len())
	for i, card := range cat.All() {
		assert.Equal(t, ids[i], card.ID)
		assert.Equal(t, i, cat.Position(card.ID))
	}
}

func TestPutUpdateKeepsOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, types.Card{ID: "card_0", Name: "First", Civilization: "Fire", CardType: "Creature"}))
	require.NoError(t, store.Put(ctx, types.Card{ID: "card_1", Name: "Second", Civilization: "Water", CardType: "Creature"}))

	// Re-ingesting an existing card must not move it to the end.
	require.NoError(t, store.Put(ctx, types.Card{ID: "card_0", Name: "First (revised)", Civilization: "Fire", CardType: "Creature"}))

	cat, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())
	assert.Equal(t, "card_0", cat.All()[0].ID)
	assert.Equal(t, "First (revised)", cat.All()[0].Name)
	assert.Equal(t, "card_1", cat.All()[1].ID)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
