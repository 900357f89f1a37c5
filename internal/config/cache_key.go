package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AuthRateKey returns the cache key for one client IP's auth-route request
// counter within a fixed rate-limit window.
func (r *CacheKeyStruct) AuthRateKey(ip string, window int64) string {
	return fmt.Sprintf("ratelimit:auth:%s:%d", ip, window)
}

var CacheKey = NewCacheKeyStruct()
