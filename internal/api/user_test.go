package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/testhelpers"
	"github.com/platefeed/backend/internal/types"
)

func TestListUsersEndpoint(t *testing.T) {
	router, db, auth := setupTestRouter(t)
	testhelpers.CreateTestUser(t, db, auth, "alice", "alice@example.com", "password123")
	testhelpers.CreateTestUser(t, db, auth, "bob", "bob@example.com", "password123")

	w := performRequest(router, http.MethodGet, "/api/users", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page struct {
		Count   int64            `json:"count"`
		Results []types.UserView `json:"results"`
	}
	decodeBody(t, w, &page)
	assert.EqualValues(t, 2, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "alice", page.Results[0].Username)
}

func TestMeEndpoint(t *testing.T) {
	router, db, auth := setupTestRouter(t)
	user, token := testhelpers.CreateTestUser(t, db, auth, "alice", "alice@example.com", "password123")

	t.Run("anonymous", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/users/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	w := performRequest(router, http.MethodGet, "/api/users/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view types.UserView
	decodeBody(t, w, &view)
	assert.Equal(t, user.ID, view.ID)
	assert.Equal(t, "alice", view.Username)
}

func TestGetUserEndpoint(t *testing.T) {
	router, db, auth := setupTestRouter(t)
	user, _ := testhelpers.CreateTestUser(t, db, auth, "alice", "alice@example.com", "password123")

	w := performRequest(router, http.MethodGet, "/api/users/"+user.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var view types.UserView
	decodeBody(t, w, &view)
	assert.Equal(t, "alice", view.Username)

	t.Run("unknown user", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/users/"+uuid.NewString(), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSetPasswordEndpoint(t *testing.T) {
	router, db, auth := setupTestRouter(t)
	_, token := testhelpers.CreateTestUser(t, db, auth, "alice", "alice@example.com", "oldpassword")

	w := performRequest(router, http.MethodPost, "/api/users/set_password", types.SetPasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, http.MethodPost, "/api/users/set_password", types.SetPasswordRequest{
		CurrentPassword: "oldpassword",
		NewPassword:     "newpassword",
	}, token)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(router, http.MethodPost, "/api/auth/login", types.LoginRequest{
		Email:    "alice@example.com",
		Password: "newpassword",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubscribeEndpoint(t *testing.T) {
	router, db, auth := setupTestRouter(t)
	reader, token := testhelpers.CreateTestUser(t, db, auth, "reader", "reader@example.com", "password123")
	author, _ := testhelpers.CreateTestUser(t, db, auth, "author", "author@example.com", "password123")

	tag := seedTestTag(t, db, "dinner")
	flour := seedTestIngredient(t, db, "flour", models.UnitGram)
	seedTestRecipe(t, db, author.ID, "Bread", tag, flour, 500)

	subscribeURL := fmt.Sprintf("/api/users/%s/subscribe", author.ID)

	t.Run("anonymous", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, subscribeURL, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("self", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, fmt.Sprintf("/api/users/%s/subscribe", reader.ID), nil, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	w := performRequest(router, http.MethodPost, subscribeURL, nil, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view types.SubscriptionView
	decodeBody(t, w, &view)
	assert.Equal(t, "author", view.Username)
	assert.True(t, view.IsSubscribed)
	assert.EqualValues(t, 1, view.RecipesCount)
	require.Len(t, view.Recipes, 1)
	assert.Equal(t, "Bread", view.Recipes[0].Name)

	t.Run("double subscribe", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, subscribeURL, nil, token)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown author", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, fmt.Sprintf("/api/users/%s/subscribe", uuid.New()), nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("subscriptions list", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/users/subscriptions?recipes_limit=1", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var page struct {
			Count   int64                    `json:"count"`
			Results []types.SubscriptionView `json:"results"`
		}
		decodeBody(t, w, &page)
		assert.EqualValues(t, 1, page.Count)
		require.Len(t, page.Results, 1)
		assert.Equal(t, "author", page.Results[0].Username)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		w := performRequest(router, http.MethodDelete, subscribeURL, nil, token)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = performRequest(router, http.MethodDelete, subscribeURL, nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
