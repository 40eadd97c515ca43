// Package cache provides the lookup result caches.
package cache

import (
	"fmt"
	"io"

	"github.com/skuprice/backend/internal/domain"
)

// Cache is a CacheRepository that holds resources until closed
type Cache interface {
	domain.CacheRepository
	io.Closer
}

// New builds the cache selected by cacheType. "none" returns a nil Cache,
// which callers treat as "always fetch fresh".
func New(cacheType, redisURL string) (Cache, error) {
	switch cacheType {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryCache(), nil
	case "redis":
		c, err := NewRedisCache(redisURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache type: %s", cacheType)
	}
}
