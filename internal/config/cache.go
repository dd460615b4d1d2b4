package config

import (
	"strings"
	"time"
)

// CacheConfig configures the Redis response cache in front of the catalog
// and report reads.  KeyStrategy "user_route_query" keeps per-user report
// responses apart; the default "route_query" shares catalog entries.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	ReportTTL    time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads the CACHE_* variables.
func LoadCacheConfig() CacheConfig {
	methods := map[string]bool{}
	for _, m := range strings.Split(envStr("CACHE_METHODS", "GET"), ",") {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			methods[m] = true
		}
	}
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      methods,
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		ReportTTL:    envDur("CACHE_REPORT_TTL", 5*time.Minute),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "aurora:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

// WithTTL returns a copy using ttl and, when given, strategy.
func (c CacheConfig) WithTTL(ttl time.Duration, strategy string) CacheConfig {
	c.TTL = ttl
	if strategy != "" {
		c.KeyStrategy = strategy
	}
	return c
}
