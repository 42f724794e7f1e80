package config

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
	Ctx         = context.Background()
)

// InitRedis returns the shared cache client, or nil when REDIS_ADDR is unset.
// The service runs fine without a cache; queries just always hit Mongo.
func InitRedis() *redis.Client {
	redisOnce.Do(func() {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			log.Println("REDIS_ADDR not set, query caching disabled")
			return
		}

		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASS"),
			DB:       0,
		})

		if _, err := client.Ping(Ctx).Result(); err != nil {
			log.Printf("Failed to connect to Redis, query caching disabled: %v", err)
			return
		}
		log.Println("Connected to Redis")
		redisClient = client
	})
	return redisClient
}
