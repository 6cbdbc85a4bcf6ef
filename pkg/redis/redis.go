package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ttmai/velora-backend/config"
	"github.com/ttmai/velora-backend/pkg/logger"
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

// BlacklistToken adds a token to the blacklist
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	logger.Debug("Adding token to blacklist", map[string]interface{}{
		"expiry": expiry.String(),
	})

	key := fmt.Sprintf("blacklist:%s", token)
	err := client.Set(ctx, key, "revoked", expiry).Err()
	if err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}

	logger.Debug("Token successfully blacklisted", nil)
	return nil
}

// IsTokenBlacklisted checks if a token is in the blacklist
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)
	val, err := client.Get(ctx, key).Result()

	if err == redis.Nil {
		// Key does not exist - token is not blacklisted
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}

	return val == "revoked", nil
}

// ClaimPaymentCallback marks a gateway transaction reference as being
// processed. Returns false when another callback for the same reference
// already holds the claim, so replayed callbacks can be dropped before
// touching the database.
func ClaimPaymentCallback(ctx context.Context, txnRef string, expiry time.Duration) (bool, error) {
	if client == nil {
		// Redis is optional for callback dedup; the payment_intents
		// unique constraint is the durable guard.
		return true, nil
	}

	key := fmt.Sprintf("payment:callback:%s", txnRef)
	ok, err := client.SetNX(ctx, key, "processing", expiry).Result()
	if err != nil {
		logger.Error("Failed to claim payment callback", err, map[string]interface{}{
			"txn_ref": txnRef,
		})
		return false, err
	}
	return ok, nil
}

// ReleasePaymentCallback drops a callback claim so a later legitimate
// retry can be processed after a transient failure.
func ReleasePaymentCallback(ctx context.Context, txnRef string) {
	if client == nil {
		return
	}
	key := fmt.Sprintf("payment:callback:%s", txnRef)
	if err := client.Del(ctx, key).Err(); err != nil {
		logger.Warn("Failed to release payment callback claim", map[string]interface{}{
			"txn_ref": txnRef,
			"error":   err.Error(),
		})
	}
}
