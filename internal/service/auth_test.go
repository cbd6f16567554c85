package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

const testSecret = "test-secret"

func TestLoginAndValidate(t *testing.T) {
	db, repos := setupRepos(t)
	staff := testhelpers.CreateStaff(t, db, "boss")
	svc := service.NewAuthService(repos.Users, testSecret, time.Hour, nil)
	ctx := context.Background()

	token, err := svc.Login(ctx, types.LoginRequest{Email: "boss@example.com", Password: testhelpers.TestPassword})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, claims.UserID)
	assert.Equal(t, "boss", claims.Username)
	assert.True(t, claims.IsStaff)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, types.Caller{UserID: staff.ID, IsStaff: true}, claims.Caller())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db, repos := setupRepos(t)
	testhelpers.CreateUser(t, db, "ivan")
	svc := service.NewAuthService(repos.Users, testSecret, time.Hour, nil)
	ctx := context.Background()

	_, err := svc.Login(ctx, types.LoginRequest{Email: "ivan@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = svc.Login(ctx, types.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = svc.Login(ctx, types.LoginRequest{Email: "not-an-email", Password: "whatever"})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestValidateTokenRejectsForeignTokens(t *testing.T) {
	_, repos := setupRepos(t)
	svc := service.NewAuthService(repos.Users, testSecret, time.Hour, nil)
	ctx := context.Background()

	_, err := svc.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.TokenClaims{UserID: 1})
	signed, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, signed)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		UserID:           1,
	})
	signed, err = expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, signed)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &types.TokenClaims{UserID: 1})
	signed, err = none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, signed)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestLogoutRevokesToken(t *testing.T) {
	db, repos := setupRepos(t)
	testhelpers.CreateUser(t, db, "ivan")
	revoked := new(MockRevocationList)
	svc := service.NewAuthService(repos.Users, testSecret, time.Hour, revoked)
	ctx := context.Background()

	token, err := svc.Login(ctx, types.LoginRequest{Email: "ivan@example.com", Password: testhelpers.TestPassword})
	require.NoError(t, err)

	revoked.On("IsRevoked", mock.Anything, mock.Anything).Return(false, nil).Once()
	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	revoked.On("Revoke", mock.Anything, claims.ID, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 0 && ttl <= time.Hour
	})).Return(nil).Once()
	require.NoError(t, svc.Logout(ctx, claims))

	revoked.On("IsRevoked", mock.Anything, claims.ID).Return(true, nil).Once()
	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	revoked.On("IsRevoked", mock.Anything, claims.ID).Return(false, errors.New("redis down")).Once()
	_, err = svc.ValidateToken(ctx, token)
	assert.NoError(t, err)

	revoked.AssertExpectations(t)
}

func TestSetPassword(t *testing.T) {
	db, repos := setupRepos(t)
	u := testhelpers.CreateUser(t, db, "ivan")
	svc := service.NewAuthService(repos.Users, testSecret, time.Hour, nil)
	ctx := context.Background()
	caller := types.Caller{UserID: u.ID}

	err := svc.SetPassword(ctx, caller, types.SetPasswordRequest{NewPassword: "brand-new-pass", CurrentPassword: "wrong"})
	verr, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "current_password", verr.Field)

	err = svc.SetPassword(ctx, caller, types.SetPasswordRequest{NewPassword: "short", CurrentPassword: testhelpers.TestPassword})
	assert.ErrorIs(t, err, errs.ErrValidation)

	require.NoError(t, svc.SetPassword(ctx, caller, types.SetPasswordRequest{NewPassword: "brand-new-pass", CurrentPassword: testhelpers.TestPassword}))

	_, err = svc.Login(ctx, types.LoginRequest{Email: "ivan@example.com", Password: "brand-new-pass"})
	assert.NoError(t, err)
	_, err = svc.Login(ctx, types.LoginRequest{Email: "ivan@example.com", Password: testhelpers.TestPassword})
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	assert.ErrorIs(t, svc.SetPassword(ctx, types.Anonymous, types.SetPasswordRequest{}), errs.ErrUnauthorized)
}
