package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/erp/reconciler/internal/infrastructure/cache"
)

// TokenBlacklist revokes tokens before they expire, on logout or refresh.
// Entries live in the shared cache so that every instance sees them.
type TokenBlacklist struct {
	store     cache.Store
	keyPrefix string
	now       func() time.Time
}

// NewTokenBlacklist creates a blacklist over a cache store
func NewTokenBlacklist(store cache.Store) *TokenBlacklist {
	return &TokenBlacklist{store: store, keyPrefix: "token:blacklist:", now: time.Now}
}

func (b *TokenBlacklist) jtiKey(jti string) string {
	return b.keyPrefix + "jti:" + jti
}

func (b *TokenBlacklist) userKey(userID int64) string {
	return b.keyPrefix + "user:" + strconv.FormatInt(userID, 10)
}

// Revoke blacklists one token until it would have expired anyway
func (b *TokenBlacklist) Revoke(ctx context.Context, claims *Claims) error {
	ttl := claims.RemainingTTL()
	if ttl <= 0 {
		return nil
	}
	return b.store.Set(ctx, b.jtiKey(claims.ID), []byte("1"), ttl)
}

// RevokeUser rejects every token of the user issued up to now. ttl should be
// the longest token lifetime.
func (b *TokenBlacklist) RevokeUser(ctx context.Context, userID int64, ttl time.Duration) error {
	at := strconv.FormatInt(b.now().Unix(), 10)
	return b.store.Set(ctx, b.userKey(userID), []byte(at), ttl)
}

// Check returns ErrTokenBlacklisted for a revoked token
func (b *TokenBlacklist) Check(ctx context.Context, claims *Claims) error {
	_, found, err := b.store.Get(ctx, b.jtiKey(claims.ID))
	if err != nil {
		return err
	}
	if found {
		return ErrTokenBlacklisted
	}

	userID, err := claims.UserID()
	if err != nil {
		return err
	}
	raw, found, err := b.store.Get(ctx, b.userKey(userID))
	if err != nil || !found {
		return err
	}
	revokedAt, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return nil
	}
	if claims.IssuedAt != nil && claims.IssuedAt.Unix() <= revokedAt {
		return ErrTokenBlacklisted
	}
	return nil
}
