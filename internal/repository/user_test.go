package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestUserRepository(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.User{Username: "cook", Email: "cook@example.com", FirstName: "C", LastName: "K", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, u))

	dup := &models.User{Username: "cook", Email: "other@example.com", PasswordHash: "h"}
	assert.ErrorIs(t, repo.Create(ctx, dup), errs.ErrAlreadyExists)

	byEmail, err := repo.FindByEmail(ctx, "cook@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byName, err := repo.FindByUsername(ctx, "cook")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash"))
	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.ErrorIs(t, repo.UpdatePassword(ctx, 999, "x"), errs.ErrNotFound)
}

func TestUserList(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repo := NewUserRepository(db)
	for i := 0; i < 7; i++ {
		testhelpers.CreateUser(t, db, fmt.Sprintf("user%d", i))
	}

	users, total, err := repo.List(context.Background(), types.NewPage(2, 3))
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, users, 3)
	assert.Equal(t, "user3", users[0].Username)
}

func TestSubscriptions(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	subs := NewSubscriptionRepository(db)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	carol := testhelpers.CreateUser(t, db, "carol")

	require.NoError(t, subs.Create(ctx, alice.ID, carol.ID))
	require.NoError(t, subs.Create(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, subs.Create(ctx, alice.ID, bob.ID), errs.ErrAlreadyExists)

	followed, err := subs.FollowedAmong(ctx, alice.ID, []uint{bob.ID, carol.ID, alice.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{bob.ID: true, carol.ID: true}, followed)

	users, total, err := subs.ListFollowing(ctx, alice.ID, types.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[0].Username)
	assert.Equal(t, "bob@example.com", users[0].Email)
	assert.Equal(t, "carol", users[1].Username)

	require.NoError(t, subs.Delete(ctx, alice.ID, bob.ID))
	require.NoError(t, subs.Delete(ctx, alice.ID, bob.ID))
	_, total, err = subs.ListFollowing(ctx, alice.ID, types.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestTranslateError(t *testing.T) {
	assert.Nil(t, translateError(nil))
	assert.ErrorIs(t, translateError(errors.New("UNIQUE constraint failed: tags.slug")), errs.ErrAlreadyExists)
	assert.ErrorIs(t, translateError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_tags_slug" (SQLSTATE 23505)`)), errs.ErrAlreadyExists)
	assert.ErrorIs(t, translateError(errors.New("FOREIGN KEY constraint failed")), errs.ErrInUse)
	assert.ErrorIs(t, translateError(errors.New("(SQLSTATE 23503)")), errs.ErrInUse)

	other := errors.New("boom")
	assert.Equal(t, other, translateError(other))
}
