// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"zenflow/config"

	"github.com/go-redis/redis/v8"
)

// PrefsClient is the Redis client holding small per-session preferences,
// such as the last email used at checkout.
var PrefsClient *redis.Client

// InitPrefsClient initializes the Redis preferences client (using the DB
// from AppConfig).
func InitPrefsClient() {
	PrefsClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisPrefsDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := PrefsClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Prefs): %v", err)
	}
}

// GetPrefsClient returns the Redis preferences client.
func GetPrefsClient() *redis.Client {
	if PrefsClient == nil {
		InitPrefsClient()
	}
	return PrefsClient
}
