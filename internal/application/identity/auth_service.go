// Package identity signs users in and out.
package identity

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/domain/shared"
	"github.com/erp/reconciler/internal/infrastructure/auth"
)

// Authentication errors
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	ErrTokenExpired       = shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	ErrTokenInvalid       = shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	ErrTokenRevoked       = shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	ErrInternal           = shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
)

// PasswordHasher hashes and checks passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   catalog.UserRepository
	jwtService *auth.JWTService
	blacklist  *auth.TokenBlacklist
	hasher     PasswordHasher
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service. blacklist may be nil,
// in which case logout only logs.
func NewAuthService(
	userRepo catalog.UserRepository,
	jwtService *auth.JWTService,
	blacklist *auth.TokenBlacklist,
	hasher PasswordHasher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		hasher:     hasher,
		logger:     logger,
		now:        time.Now,
	}
}

// Login checks the credentials and returns a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*TokenResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("login for unknown user", zap.String("username", input.Username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.logger.Warn("invalid password", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		s.logger.Warn("login for inactive user", zap.Int64("user_id", user.ID))
		return nil, catalog.ErrUserInactive
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	user.RecordLogin(s.now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		// the tokens are valid anyway
		s.logger.Error("failed to record login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	pair.User = &UserInfo{ID: user.ID, Email: user.Email, IsStaff: user.IsStaff, LastLoginAt: user.LastLoginAt}
	return pair, nil
}

// RefreshToken exchanges a refresh token for a new pair. The old refresh
// token is revoked.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*TokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("refresh token rejected", zap.Error(err))
		return nil, mapTokenError(err)
	}
	if s.blacklist != nil {
		if err := s.blacklist.Check(ctx, claims); err != nil {
			return nil, mapTokenError(err)
		}
	}

	userID, _ := claims.UserID()
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, catalog.ErrUserInactive
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if s.blacklist != nil {
		if err := s.blacklist.Revoke(ctx, claims); err != nil {
			s.logger.Error("failed to revoke refresh token", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	return pair, nil
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, refreshToken string) error {
	if s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, access); err != nil {
		return err
	}
	if refreshToken == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		// already unusable
		return nil
	}
	return s.blacklist.Revoke(ctx, claims)
}

// Register creates a user with a hashed password
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user, err := catalog.NewUser(input.Email, hash)
	if err != nil {
		return nil, err
	}
	user.IsStaff = input.IsStaff
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return &UserInfo{ID: user.ID, Email: user.Email, IsStaff: user.IsStaff}, nil
}

func (s *AuthService) issue(user *catalog.User) (*TokenResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.Subject{UserID: user.ID, Email: user.Email, IsStaff: user.IsStaff})
	if err != nil {
		s.logger.Error("failed to generate token pair", zap.Error(err))
		return nil, ErrInternal
	}
	return &TokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return ErrTokenExpired
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return ErrTokenRevoked
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrMissingUserID):
		return ErrTokenInvalid
	default:
		return err
	}
}
