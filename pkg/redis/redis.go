package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mixtales/mixtales-backend/config"
	"github.com/mixtales/mixtales-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// CachedUser is the token validation result stored between provider calls.
type CachedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// tokenKey hashes the bearer token so raw credentials never land in Redis
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("token:%s", hex.EncodeToString(sum[:]))
}

// CacheUser stores a validated token's user for the given TTL
func CacheUser(ctx context.Context, token string, user CachedUser, ttl time.Duration) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := client.Set(ctx, tokenKey(token), data, ttl).Err(); err != nil {
		logger.Error("Failed to cache token validation", err, nil)
		return err
	}

	return nil
}

// GetCachedUser looks up a previously validated token. Returns nil when
// the token is not cached.
func GetCachedUser(ctx context.Context, token string) (*CachedUser, error) {
	val, err := client.Get(ctx, tokenKey(token)).Result()

	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to read token cache", err, nil)
		return nil, err
	}

	var user CachedUser
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		return nil, err
	}

	return &user, nil
}
