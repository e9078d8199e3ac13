package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const blocklistPrefix = "foodgram:revoked_token:"

// TokenBlocklist records revoked token ids in Redis until the token would
// have expired anyway. With a nil client it is a no-op and nothing is ever
// reported revoked.
type TokenBlocklist struct {
	rdb *redis.Client
}

func NewTokenBlocklist(rdb *redis.Client) *TokenBlocklist {
	return &TokenBlocklist{rdb: rdb}
}

func (b *TokenBlocklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if b.rdb == nil || tokenID == "" || ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, blocklistPrefix+tokenID, 1, ttl).Err()
}

func (b *TokenBlocklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if b.rdb == nil || tokenID == "" {
		return false, nil
	}
	err := b.rdb.Get(ctx, blocklistPrefix+tokenID).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	}
	return false, err
}
