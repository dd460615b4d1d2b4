package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfigNormalizes(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Fatalf("capacity = %d, want 1", cfg.Capacity)
	}
	if cfg.TTL != 10*time.Second {
		t.Fatalf("ttl = %s, want 10s", cfg.TTL)
	}
	if cfg.Prefix != "aurora:rl" {
		t.Fatalf("prefix = %q", cfg.Prefix)
	}
}

func TestLoadRateLimitConfigBurstOverride(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "15")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "500ms")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 15 || cfg.RefillTokens != 1 || cfg.RefillInterval != 500*time.Millisecond {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestCacheConfigWithTTL(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	base := LoadCacheConfig()
	if !base.Methods["GET"] || !base.Methods["HEAD"] {
		t.Fatalf("methods = %v", base.Methods)
	}
	rep := base.WithTTL(time.Minute, "user_route_query")
	if rep.TTL != time.Minute || rep.KeyStrategy != "user_route_query" {
		t.Fatalf("report config = %+v", rep)
	}
	if base.KeyStrategy != "route_query" {
		t.Fatalf("base config mutated: %+v", base)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("X_FLAG", "off")
	if envBool("X_FLAG", true) {
		t.Fatal("expected false")
	}
	t.Setenv("X_FLAG", "maybe")
	if !envBool("X_FLAG", true) {
		t.Fatal("expected default")
	}
}

func TestRedisOptions(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")
	opt, err := RedisOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opt.Addr != "cache.internal:6380" || opt.DB != 2 || opt.TLSConfig != nil {
		t.Fatalf("options = %+v", opt)
	}

	t.Setenv("REDIS_URL", "redis://:pw@10.0.0.5:6379/3")
	opt, err = RedisOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opt.Addr != "10.0.0.5:6379" || opt.Password != "pw" || opt.DB != 3 {
		t.Fatalf("url options = %+v", opt)
	}
}
