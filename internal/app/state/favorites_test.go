package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavorites_AddIsIdempotent(t *testing.T) {
	favs := NewFavorites().Add(testProduct).Add(testProduct)

	assert.Equal(t, 1, favs.Count())
	assert.True(t, favs.IsFavorite(testProduct.ID))
}

func TestFavorites_AddKeepsFirstSnapshot(t *testing.T) {
	renamed := testProduct
	renamed.Name = "Renamed"

	favs := NewFavorites().Add(testProduct).Add(renamed)
	assert.Equal(t, "Test Product", favs.List()[0].Name)
}

func TestFavorites_Remove(t *testing.T) {
	favs := NewFavorites().Add(testProduct).Add(testProduct2)

	favs = favs.Remove(testProduct.ID)
	assert.False(t, favs.IsFavorite(testProduct.ID))
	assert.True(t, favs.IsFavorite(testProduct2.ID))

	// absent id is a no-op
	assert.Equal(t, 1, favs.Remove(9999).Count())
}

func TestFavorites_ToggleRoundTrip(t *testing.T) {
	start := NewFavorites().Add(testProduct2)

	once := start.Toggle(testProduct)
	assert.True(t, once.IsFavorite(testProduct.ID))

	twice := once.Toggle(testProduct)
	assert.False(t, twice.IsFavorite(testProduct.ID))
	assert.Equal(t, start.List(), twice.List())

	// starting from a member
	assert.Equal(t, start.IsFavorite(testProduct2.ID), start.Toggle(testProduct2).Toggle(testProduct2).IsFavorite(testProduct2.ID))
}

func TestFavorites_ListOrderAndClear(t *testing.T) {
	favs := NewFavorites().Add(testProduct2).Add(testProduct)

	list := favs.List()
	require.Len(t, list, 2)
	assert.Equal(t, testProduct2.ID, list[0].ID)
	assert.Equal(t, testProduct.ID, list[1].ID)

	assert.Empty(t, favs.Clear().List())
	assert.Equal(t, 2, favs.Count())
}

func TestFavorites_JSONRoundTrip(t *testing.T) {
	favs := NewFavorites().Add(testProduct2).Add(testProduct)

	data, err := json.Marshal(favs)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ids":[2,1]`)

	var restored Favorites
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, []uint{2, 1}, []uint{restored.List()[0].ID, restored.List()[1].ID})
}

func TestFavorites_UnmarshalRejectsMismatchedKey(t *testing.T) {
	raw := `{"items":{"1":{"id":2,"name":"Wrong","slug":"wrong"}},"ids":[1]}`

	var favs Favorites
	err := json.Unmarshal([]byte(raw), &favs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyed 1")
}
