package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const blacklistPrefix = "blacklist:"

// Blacklist keeps revoked tokens in Redis until they expire on their own.
type Blacklist struct {
	rdb *redis.Client
	jwt *JWTManager
}

func NewBlacklist(rdb *redis.Client, jwt *JWTManager) *Blacklist {
	return &Blacklist{rdb: rdb, jwt: jwt}
}

func (b *Blacklist) Revoke(ctx context.Context, token string) error {
	exp, err := b.jwt.Expiry(token)
	if err != nil {
		return err
	}
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, blacklistPrefix+token, 1, ttl).Err()
}

func (b *Blacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := b.rdb.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
