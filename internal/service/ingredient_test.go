package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/testhelpers"
)

func TestImportCSV(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ingredients := service.NewIngredientService(db)
	ctx := context.Background()

	csv := "flour,g\nmilk,ml\neggs,piece\n"
	imported, err := ingredients.ImportCSV(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 3, imported)

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	t.Run("existing names are skipped", func(t *testing.T) {
		_, err := ingredients.ImportCSV(ctx, strings.NewReader("flour,g\nsugar,g\n"))
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
		assert.EqualValues(t, 4, count)
	})

	t.Run("unknown unit", func(t *testing.T) {
		_, err := ingredients.ImportCSV(ctx, strings.NewReader("butter,stick\n"))
		var validationErr *service.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Message, "stick")
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := ingredients.ImportCSV(ctx, strings.NewReader(",g\n"))
		var validationErr *service.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("empty file", func(t *testing.T) {
		imported, err := ingredients.ImportCSV(ctx, strings.NewReader(""))
		require.NoError(t, err)
		assert.Zero(t, imported)
	})
}

func TestListIngredients(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ingredients := service.NewIngredientService(db)
	ctx := context.Background()

	seedIngredient(t, db, "salt", models.UnitGram)
	seedIngredient(t, db, "sugar", models.UnitGram)
	seedIngredient(t, db, "milk", models.UnitMilliliter)

	t.Run("all", func(t *testing.T) {
		got, err := ingredients.ListIngredients(ctx, "")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "milk", got[0].Name)
	})

	t.Run("prefix", func(t *testing.T) {
		got, err := ingredients.ListIngredients(ctx, "s")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "salt", got[0].Name)
		assert.Equal(t, "sugar", got[1].Name)
	})

	t.Run("prefix does not match inside the name", func(t *testing.T) {
		got, err := ingredients.ListIngredients(ctx, "alt")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("wildcard characters match literally", func(t *testing.T) {
		seedIngredient(t, db, "100% cocoa", models.UnitGram)

		got, err := ingredients.ListIngredients(ctx, "%")
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = ingredients.ListIngredients(ctx, "_")
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = ingredients.ListIngredients(ctx, "100%")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "100% cocoa", got[0].Name)
	})
}

func TestGetIngredient(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ingredients := service.NewIngredientService(db)
	ctx := context.Background()

	salt := seedIngredient(t, db, "salt", models.UnitGram)
	got, err := ingredients.GetIngredient(ctx, salt.ID)
	require.NoError(t, err)
	assert.Equal(t, "salt", got.Name)
}
