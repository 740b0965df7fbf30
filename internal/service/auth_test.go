package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/testhelpers"
	"github.com/platefeed/backend/internal/types"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"plain", "alice", false},
		{"all allowed specials", "a.b@c+d-e_f", false},
		{"digits", "user123", false},
		{"reserved me", "me", true},
		{"reserved me uppercase", "ME", true},
		{"space", "bad name", true},
		{"slash", "bad/name", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidateUsername(tt.username)
			if tt.wantErr {
				var validationErr *service.ValidationError
				assert.ErrorAs(t, err, &validationErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	auth := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	req := types.RegisterRequest{
		Email:     "alice@example.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Cooper",
		Password:  "password123",
	}
	user, token, err := auth.Register(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "password123", user.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		dup := req
		dup.Username = "alice2"
		_, _, err := auth.Register(ctx, dup)
		var validationErr *service.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Message, "email")
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := req
		dup.Email = "other@example.com"
		_, _, err := auth.Register(ctx, dup)
		var validationErr *service.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Message, "username")
	})

	t.Run("reserved username", func(t *testing.T) {
		dup := req
		dup.Email = "me@example.com"
		dup.Username = "me"
		_, _, err := auth.Register(ctx, dup)
		var validationErr *service.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestLogin(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	auth := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, _, err := auth.Register(ctx, types.RegisterRequest{
		Email:    "bob@example.com",
		Username: "bob",
		Password: "password123",
	})
	require.NoError(t, err)

	user, token, err := auth.Login(ctx, "bob@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "bob", claims.Username)

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "bob@example.com", "wrong")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestSetPassword(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	auth := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	user, _, err := auth.Register(ctx, types.RegisterRequest{
		Email:    "carol@example.com",
		Username: "carol",
		Password: "oldpassword",
	})
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := auth.SetPassword(ctx, user.ID, "not-it", "newpassword")
		assert.ErrorIs(t, err, service.ErrWrongPassword)
	})

	require.NoError(t, auth.SetPassword(ctx, user.ID, "oldpassword", "newpassword"))

	_, _, err = auth.Login(ctx, "carol@example.com", "oldpassword")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, _, err = auth.Login(ctx, "carol@example.com", "newpassword")
	assert.NoError(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	auth := service.NewAuthService(db, "test-secret")

	_, err := auth.ValidateToken("not-a-token")
	assert.Error(t, err)

	other := service.NewAuthService(db, "other-secret")
	token, err := other.GenerateToken(&types.TokenClaims{Username: "mallory"})
	require.NoError(t, err)
	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}
