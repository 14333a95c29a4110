package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient backs the short-lived auth state: remembered credentials and
// pending two-factor codes. Both expire on their own, so losing Redis only
// degrades those features.
var RedisClient *redis.Client

// ConnectRedis connects using REDIS_ADDR, REDIS_PASSWORD and REDIS_DB. A
// failed connection is logged and returns nil rather than aborting startup;
// remember-me and two-factor login are disabled until Redis comes back.
func ConnectRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	db := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if n, err := strconv.Atoi(dbStr); err == nil {
			db = n
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           db,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("Warning: Redis connection failed: %v", err)
		log.Println("Remember-me and two-factor login are disabled")
		return nil
	}

	log.Println("Connected to Redis")
	RedisClient = client
	return client
}

// GetRedisClient returns the shared client, or nil when Redis is unavailable.
func GetRedisClient() *redis.Client {
	return RedisClient
}

// RedisHealthy reports whether the auth-state store answers a ping.
func RedisHealthy(ctx context.Context) bool {
	if RedisClient == nil {
		return false
	}
	return RedisClient.Ping(ctx).Err() == nil
}

// CloseRedis closes the Redis connection.
func CloseRedis() {
	if RedisClient != nil {
		RedisClient.Close()
	}
}
