package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/domain/shared"
	"github.com/erp/reconciler/internal/infrastructure/auth"
	"github.com/erp/reconciler/internal/infrastructure/cache"
	"github.com/erp/reconciler/internal/infrastructure/config"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*catalog.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*catalog.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.User), args.Error(1)
}

func (m *MockUserRepository) FindActiveIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *catalog.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type testEnv struct {
	repo    *MockUserRepository
	service *AuthService
	hasher  *auth.BcryptHasher
	jwt     *auth.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	store := cache.NewInMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	repo := new(MockUserRepository)
	hasher := &auth.BcryptHasher{Cost: bcrypt.MinCost}
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-that-is-long-enough-123456",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "reconciler-test",
	})
	return &testEnv{
		repo:    repo,
		service: NewAuthService(repo, jwtService, auth.NewTokenBlacklist(store), hasher, zap.NewNop()),
		hasher:  hasher,
		jwt:     jwtService,
	}
}

func (e *testEnv) user(t *testing.T, id int64, password string) *catalog.User {
	hash, err := e.hasher.Hash(password)
	require.NoError(t, err)
	u, err := catalog.NewUser("seller@example.com", hash)
	require.NoError(t, err)
	u.ID = id
	return u
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success records login", func(t *testing.T) {
		env := newTestEnv(t)
		u := env.user(t, 7, "correct horse")
		env.repo.On("FindByEmail", ctx, "seller@example.com").Return(u, nil)
		env.repo.On("Save", ctx, u).Return(nil)

		res, err := env.service.Login(ctx, LoginInput{Username: "seller@example.com", Password: "correct horse"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
		assert.Equal(t, int64(7), res.User.ID)
		assert.NotNil(t, u.LastLoginAt)

		claims, err := env.jwt.ValidateAccessToken(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "seller@example.com", claims.Email)
		env.repo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		env := newTestEnv(t)
		u := env.user(t, 7, "correct horse")
		env.repo.On("FindByEmail", ctx, "seller@example.com").Return(u, nil)

		_, err := env.service.Login(ctx, LoginInput{Username: "seller@example.com", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		env.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

		_, err := env.service.Login(ctx, LoginInput{Username: "ghost@example.com", Password: "x"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		env := newTestEnv(t)
		u := env.user(t, 7, "correct horse")
		u.IsActive = false
		env.repo.On("FindByEmail", ctx, "seller@example.com").Return(u, nil)

		_, err := env.service.Login(ctx, LoginInput{Username: "seller@example.com", Password: "correct horse"})
		assert.ErrorIs(t, err, catalog.ErrUserInactive)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.user(t, 9, "pw-12345678")
	env.repo.On("FindByID", ctx, int64(9)).Return(u, nil)

	pair, err := env.jwt.GenerateTokenPair(auth.Subject{UserID: 9, Email: u.Email})
	require.NoError(t, err)

	res, err := env.service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, res.RefreshToken)

	// the used refresh token is single-use
	_, err = env.service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = env.service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.AccessToken})
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.user(t, 4, "pw-12345678")
	env.repo.On("FindByID", ctx, int64(4)).Return(u, nil).Maybe()

	pair, err := env.jwt.GenerateTokenPair(auth.Subject{UserID: 4})
	require.NoError(t, err)
	access, err := env.jwt.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, env.service.Logout(ctx, access, pair.RefreshToken))

	_, err = env.service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.repo.On("Save", ctx, mock.AnythingOfType("*catalog.User")).
		Run(func(args mock.Arguments) { args.Get(1).(*catalog.User).ID = 12 }).
		Return(nil)

	info, err := env.service.Register(ctx, RegisterInput{Email: " New@Example.com", Password: "long-enough"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), info.ID)
	assert.Equal(t, "new@example.com", info.Email)

	saved := env.repo.Calls[0].Arguments.Get(1).(*catalog.User)
	assert.NoError(t, env.hasher.Compare(saved.PasswordHash, "long-enough"))

	_, err = env.service.Register(ctx, RegisterInput{Email: "not-an-email", Password: "long-enough"})
	assert.ErrorIs(t, err, catalog.ErrInvalidEmail)
}
