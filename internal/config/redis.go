package config

import (
	"context"
	"crypto/tls"
	"log"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions builds client options from REDIS_URL, or from REDIS_HOST,
// REDIS_PORT, REDIS_PASSWORD, REDIS_DB and REDIS_TLS when no URL is set.
func RedisOptions() (*redis.Options, error) {
	if url := envStr("REDIS_URL", ""); url != "" {
		return redis.ParseURL(url)
	}
	opt := &redis.Options{
		Addr:     net.JoinHostPort(envStr("REDIS_HOST", "localhost"), envStr("REDIS_PORT", "6379")),
		Password: envStr("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
	}
	if envBool("REDIS_TLS", false) {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opt, nil
}

// NewRedisClient connects to Redis, which holds checkout drafts, edit
// sessions, rate-limit buckets and cached responses.  It returns nil when
// Redis is not configured correctly or does not answer a ping within two
// seconds; the gateway then runs on in-memory drafts.
func NewRedisClient() *redis.Client {
	opt, err := RedisOptions()
	if err != nil {
		log.Printf("redis: bad REDIS_URL: %v", err)
		return nil
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis: ping %s: %v", opt.Addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
