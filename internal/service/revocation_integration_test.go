//go:build integration

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestRedisRevocationList(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	list := service.NewRedisRevocationList(client)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, "foodgram:revoked:jti:jti-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, list.Revoke(ctx, "jti-2", 0))
	revoked, err = list.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestLogoutWithRedis(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	db, repos := setupRepos(t)
	testhelpers.CreateUser(t, db, "ivan")
	svc := service.NewAuthService(repos.Users, testSecret, time.Hour, service.NewRedisRevocationList(client))
	ctx := context.Background()

	token, err := svc.Login(ctx, types.LoginRequest{Email: "ivan@example.com", Password: testhelpers.TestPassword})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))
	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
