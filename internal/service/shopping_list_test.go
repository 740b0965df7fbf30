package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/testhelpers"
)

func TestShoppingCartMembership(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	recipes := service.NewRecipeService(db, nil)
	cart := service.NewShoppingListService(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	shopper := seedUser(t, db, "shopper")
	tag := seedTag(t, db, "dinner")
	flour := seedIngredient(t, db, "flour", models.UnitGram)
	recipe := seedRecipe(t, db, recipes, author, "Bread", tag, map[*models.Ingredient]int{flour: 500})

	t.Run("nonexistent recipe rejected as invalid", func(t *testing.T) {
		_, err := cart.Add(ctx, shopper.ID, uuid.New())
		var validationErr *service.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	got, err := cart.Add(ctx, shopper.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, got.ID)

	_, err = cart.Add(ctx, shopper.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyInShoppingCart)

	set, err := cart.InCartSet(ctx, &shopper.ID, []uuid.UUID{recipe.ID})
	require.NoError(t, err)
	assert.True(t, set[recipe.ID])

	require.NoError(t, cart.Remove(ctx, shopper.ID, recipe.ID))
	assert.ErrorIs(t, cart.Remove(ctx, shopper.ID, recipe.ID), service.ErrNotInShoppingCart)
}

func TestShoppingCartAggregation(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	recipes := service.NewRecipeService(db, nil)
	cart := service.NewShoppingListService(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	shopper := seedUser(t, db, "shopper")
	tag := seedTag(t, db, "baking")
	flour := seedIngredient(t, db, "flour", models.UnitGram)
	eggs := seedIngredient(t, db, "eggs", models.UnitPiece)
	milk := seedIngredient(t, db, "milk", models.UnitMilliliter)

	bread := seedRecipe(t, db, recipes, author, "Bread", tag, map[*models.Ingredient]int{flour: 200, milk: 100})
	cake := seedRecipe(t, db, recipes, author, "Cake", tag, map[*models.Ingredient]int{flour: 300, eggs: 3})
	pie := seedRecipe(t, db, recipes, author, "Pie", tag, map[*models.Ingredient]int{eggs: 1})

	for _, r := range []uuid.UUID{bread.ID, cake.ID} {
		_, err := cart.Add(ctx, shopper.ID, r)
		require.NoError(t, err)
	}
	// Pie stays out of the cart; its egg must not count.
	_ = pie

	items, err := cart.Aggregate(ctx, shopper.ID)
	require.NoError(t, err)

	// Shared flour is summed; ordering is by ingredient name.
	require.Len(t, items, 3)
	assert.Equal(t, service.AggregatedIngredient{Name: "eggs", MeasurementUnit: models.UnitPiece, Amount: 3}, items[0])
	assert.Equal(t, service.AggregatedIngredient{Name: "flour", MeasurementUnit: models.UnitGram, Amount: 500}, items[1])
	assert.Equal(t, service.AggregatedIngredient{Name: "milk", MeasurementUnit: models.UnitMilliliter, Amount: 100}, items[2])

	t.Run("empty cart", func(t *testing.T) {
		items, err := cart.Aggregate(ctx, author.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestRenderShoppingList(t *testing.T) {
	body := service.RenderShoppingList([]service.AggregatedIngredient{
		{Name: "eggs", MeasurementUnit: "piece", Amount: 3},
		{Name: "flour", MeasurementUnit: "g", Amount: 500},
	})
	assert.Equal(t, "Shopping list:\n- eggs (piece) - 3\n- flour (g) - 500", body)

	assert.Equal(t, "Shopping list:", service.RenderShoppingList(nil))
}
