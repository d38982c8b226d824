package config

import (
	"strconv"
	"time"
)

// CacheConfig defines settings for the search response cache. When Enabled
// is false or no Redis client could be constructed, caching is disabled and
// every request goes to the database.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads cache settings from environment variables, with
// defaults suitable for development.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      getenvDefault("CACHE_ENABLED", "true") == "true",
		TTL:          parseDur(getenvDefault("CACHE_TTL", "30s")),
		Prefix:       getenvDefault("CACHE_PREFIX", "moviecache"),
		MaxBodyBytes: atoi(getenvDefault("CACHE_MAX_BODY_BYTES", "1048576")),
	}
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
