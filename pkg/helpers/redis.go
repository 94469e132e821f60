package helpers

import (
	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Redis key builders for short-lived tokens.

func KeyVerifyToken(t string) string { return "email:verify:token:" + t }
func KeyResetToken(t string) string  { return "pwd:reset:token:" + t }
