package daraja

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stawicover/agency-api/pkg/logger"
)

// tokenSafetyMargin is shaved off the provider-reported TTL so a cached token
// is never used right at its expiry edge.
const tokenSafetyMargin = 30 * time.Second

// TokenCache stores short-lived OAuth bearer tokens in Redis, keyed by a hash
// of the credentials. Purely an optimization: every miss or Redis failure
// degrades to a direct token fetch.
type TokenCache struct {
	client *redis.Client
}

// NewTokenCache wraps a Redis client. A nil client disables caching.
func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func credentialKey(consumerKey, consumerSecret string) string {
	sum := sha256.Sum256([]byte(consumerKey + ":" + consumerSecret))
	return "daraja:token:" + hex.EncodeToString(sum[:8])
}

// Get returns a cached token for the credentials, or "" on miss.
func (tc *TokenCache) Get(ctx context.Context, consumerKey, consumerSecret string) string {
	if tc == nil || tc.client == nil {
		return ""
	}

	token, err := tc.client.Get(ctx, credentialKey(consumerKey, consumerSecret)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn(ctx).Err(err).Msg("Token cache read failed")
		}
		return ""
	}
	return token
}

// Set stores a token for the provider-reported TTL minus a safety margin.
func (tc *TokenCache) Set(ctx context.Context, consumerKey, consumerSecret, token string, ttl time.Duration) {
	if tc == nil || tc.client == nil || token == "" {
		return
	}

	ttl -= tokenSafetyMargin
	if ttl <= 0 {
		return
	}

	if err := tc.client.Set(ctx, credentialKey(consumerKey, consumerSecret), token, ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("Token cache write failed")
	}
}
