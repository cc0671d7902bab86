package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"inventra-backend/shared/config"
)

type CacheManager struct {
	client *redis.Client
	ctx    context.Context
}

var (
	globalCacheManager *CacheManager
	DefaultTTL         = 30 * time.Minute
)

// InitCacheManager initializes the global cache manager
func InitCacheManager() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	// Create Redis client
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	// Test connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalCacheManager = &CacheManager{
		client: client,
		ctx:    ctx,
	}

	log.Printf("✅ Redis Cache Manager initialized successfully - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// GetCacheManager returns the global cache manager instance
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		if err := InitCacheManager(); err != nil {
			log.Printf("❌ Failed to initialize cache manager: %v", err)
			return nil
		}
	}
	return globalCacheManager
}

// blacklistKey builds the redis key for a blacklisted token hash
func blacklistKey(tokenHash string) string {
	return fmt.Sprintf("blacklist:token:%s", tokenHash)
}

// BlacklistToken marks a token hash as revoked until its natural expiry
func (cm *CacheManager) BlacklistToken(tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired, nothing to remember
	}
	return cm.client.Set(cm.ctx, blacklistKey(tokenHash), "1", ttl).Err()
}

// IsTokenBlacklisted reports whether a token hash has been revoked
func (cm *CacheManager) IsTokenBlacklisted(tokenHash string) bool {
	result, err := cm.client.Exists(cm.ctx, blacklistKey(tokenHash)).Result()
	if err != nil {
		log.Printf("❌ Redis blacklist check failed: %v", err)
		return false
	}
	return result > 0
}

// Set stores a JSON-serialized value with a TTL
func (cm *CacheManager) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %v", err)
	}
	return cm.client.Set(cm.ctx, key, data, ttl).Err()
}

// Get retrieves a JSON-serialized value into dest; returns false on miss
func (cm *CacheManager) Get(key string, dest interface{}) (bool, error) {
	data, err := cm.client.Get(cm.ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %v", err)
	}
	return true, nil
}

// Delete removes a key
func (cm *CacheManager) Delete(key string) error {
	return cm.client.Del(cm.ctx, key).Err()
}

// Close closes the redis connection
func (cm *CacheManager) Close() error {
	return cm.client.Close()
}
