package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/kvstore"
	"github.com/utafrali/storefront/internal/kvstore/memory"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-key"))
	require.NoError(t, err)
	return token
}

func newTestContext(t *testing.T, auth Authenticator) (*Context, *memory.Store) {
	t.Helper()
	kv := memory.NewStore(time.Minute)
	return New(kv, auth, logger.Discard()), kv
}

func TestCurrentUserID_NoToken(t *testing.T) {
	sc, _ := newTestContext(t, nil)

	id, ok := sc.CurrentUserID(context.Background())
	assert.False(t, ok)
	assert.Empty(t, id)
	assert.False(t, sc.IsAuthenticated(context.Background()))
}

func TestCurrentUserID_NumericSubject(t *testing.T) {
	sc, kv := newTestContext(t, nil)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, kvstore.KeyToken, signedToken(t, jwt.MapClaims{"sub": 42, "user": "johnd"}), 0))

	id, ok := sc.CurrentUserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "42", id)
	assert.True(t, sc.IsAuthenticated(ctx))
}

func TestCurrentUserID_StringSubject(t *testing.T) {
	sc, kv := newTestContext(t, nil)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, kvstore.KeyToken, signedToken(t, jwt.MapClaims{"sub": "u-7"}), 0))

	id, ok := sc.CurrentUserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u-7", id)
}

func TestCurrentUserID_IgnoresSignatureAndExpiry(t *testing.T) {
	sc, kv := newTestContext(t, nil)
	ctx := context.Background()
	expired := signedToken(t, jwt.MapClaims{"sub": 7, "exp": time.Now().Add(-time.Hour).Unix()})
	parts := strings.Split(expired, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".c2lnbmF0dXJl"
	require.NoError(t, kv.Set(ctx, kvstore.KeyToken, tampered, 0))

	id, ok := sc.CurrentUserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "7", id)
}

func TestCurrentUserID_UndecodableToken(t *testing.T) {
	sc, kv := newTestContext(t, nil)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, kvstore.KeyToken, "not-a-jwt", 0))

	_, ok := sc.CurrentUserID(ctx)
	assert.False(t, ok)
	assert.True(t, sc.IsAuthenticated(ctx))
}

func TestCurrentUserID_MissingSubject(t *testing.T) {
	sc, kv := newTestContext(t, nil)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, kvstore.KeyToken, signedToken(t, jwt.MapClaims{"user": "x"}), 0))

	_, ok := sc.CurrentUserID(ctx)
	assert.False(t, ok)
}

func TestLoginAndLogout(t *testing.T) {
	auth := new(mockAuthenticator)
	sc, _ := newTestContext(t, auth)
	ctx := context.Background()
	token := signedToken(t, jwt.MapClaims{"sub": 3})

	auth.On("Login", mock.Anything, "johnd", "pw").Return(token, nil)

	require.NoError(t, sc.Login(ctx, "johnd", "pw"))
	id, ok := sc.CurrentUserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "3", id)

	require.NoError(t, sc.Logout(ctx))
	assert.False(t, sc.IsAuthenticated(ctx))
	auth.AssertExpectations(t)
}

func TestLogin_FailureKeepsPreviousState(t *testing.T) {
	auth := new(mockAuthenticator)
	sc, _ := newTestContext(t, auth)
	ctx := context.Background()

	auth.On("Login", mock.Anything, "johnd", "bad").Return("", apperrors.Unauthorized("login rejected"))

	err := sc.Login(ctx, "johnd", "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.False(t, sc.IsAuthenticated(ctx))
}

func TestLogin_NotConfigured(t *testing.T) {
	sc, _ := newTestContext(t, nil)
	err := sc.Login(context.Background(), "a", "b")
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

type failingStore struct {
	kvstore.Store
}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func TestToken_StorageErrorIsUnauthenticated(t *testing.T) {
	sc := New(failingStore{}, nil, logger.Discard())
	assert.False(t, sc.IsAuthenticated(context.Background()))
}
