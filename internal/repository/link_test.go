package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestFavoriteAddIsUnique(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	favs := NewFavoriteRepository(db)
	ctx := context.Background()

	user := testhelpers.CreateUser(t, db, "user")
	recipe := testhelpers.CreateRecipe(t, db, user, "Soup", nil)

	require.NoError(t, favs.Add(ctx, user.ID, recipe.ID))
	assert.ErrorIs(t, favs.Add(ctx, user.ID, recipe.ID), errs.ErrAlreadyExists)

	var count int64
	db.Model(&models.Favorite{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLinkRemoveAbsentIsNoop(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	cart := NewShoppingCartRepository(db)
	ctx := context.Background()

	user := testhelpers.CreateUser(t, db, "user")
	recipe := testhelpers.CreateRecipe(t, db, user, "Soup", nil)

	assert.NoError(t, cart.Remove(ctx, user.ID, recipe.ID))

	require.NoError(t, cart.Add(ctx, user.ID, recipe.ID))
	require.NoError(t, cart.Remove(ctx, user.ID, recipe.ID))
	linked, err := cart.LinkedAmong(ctx, user.ID, []uint{recipe.ID})
	require.NoError(t, err)
	assert.False(t, linked[recipe.ID])
}

func TestLinkedAmongIsPerUserAndTable(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	favs := NewFavoriteRepository(db)
	cart := NewShoppingCartRepository(db)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	r1 := testhelpers.CreateRecipe(t, db, alice, "r1", nil)
	r2 := testhelpers.CreateRecipe(t, db, alice, "r2", nil)

	require.NoError(t, favs.Add(ctx, alice.ID, r1.ID))
	require.NoError(t, cart.Add(ctx, bob.ID, r2.ID))

	aliceFavs, err := favs.LinkedAmong(ctx, alice.ID, []uint{r1.ID, r2.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{r1.ID: true}, aliceFavs)

	aliceCart, err := cart.LinkedAmong(ctx, alice.ID, []uint{r1.ID, r2.ID})
	require.NoError(t, err)
	assert.Empty(t, aliceCart)

	anon, err := favs.LinkedAmong(ctx, 0, []uint{r1.ID})
	require.NoError(t, err)
	assert.Empty(t, anon)
}
