package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// defaultRefreshMargin keeps a cached URL from being handed out just before it expires.
const defaultRefreshMargin = time.Minute

// CacheEntry is a signed URL and the moment the link itself stops working.
type CacheEntry struct {
	URL        string
	ExpiryTime time.Time
}

// SignFunc produces a fresh signed URL for a key.
type SignFunc func(ctx context.Context) (string, error)

// URLCache provides thread-safe signed URL caching. Concurrent misses for the same key
// share a single signing call.
type URLCache struct {
	cache  map[string]CacheEntry
	mutex  sync.RWMutex
	group  singleflight.Group
	margin time.Duration
	now    func() time.Time
}

// NewURLCache creates a new URL cache instance
func NewURLCache() *URLCache {
	return &URLCache{
		cache:  make(map[string]CacheEntry),
		margin: defaultRefreshMargin,
		now:    time.Now,
	}
}

// Get returns the cached entry for key while it has more than the refresh margin left.
func (c *URLCache) Get(key string) (CacheEntry, bool) {
	c.mutex.RLock()
	entry, found := c.cache[key]
	c.mutex.RUnlock()

	if found && c.now().Add(c.margin).Before(entry.ExpiryTime) {
		return entry, true
	}

	return CacheEntry{}, false
}

// Set stores a URL whose link expires at expiry.
func (c *URLCache) Set(key string, url string, expiry time.Time) {
	c.mutex.Lock()
	c.cache[key] = CacheEntry{
		URL:        url,
		ExpiryTime: expiry,
	}
	c.mutex.Unlock()
}

// Delete drops the cached URL for key.
func (c *URLCache) Delete(key string) {
	c.mutex.Lock()
	delete(c.cache, key)
	c.mutex.Unlock()
}

// Clear removes expired entries from cache
func (c *URLCache) Clear() {
	now := c.now()
	c.mutex.Lock()
	for key, entry := range c.cache {
		if now.After(entry.ExpiryTime) {
			delete(c.cache, key)
		}
	}
	c.mutex.Unlock()
}

// GetOrSign returns the cached URL for key or calls sign once and caches the result.
// The returned time is when the link expires; a cached link is re-signed once less
// than the refresh margin remains. Failed signings are not cached.
func (c *URLCache) GetOrSign(ctx context.Context, key string, ttl time.Duration, sign SignFunc) (string, time.Time, error) {
	if entry, ok := c.Get(key); ok {
		return entry.URL, entry.ExpiryTime, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if entry, ok := c.Get(key); ok {
			return entry, nil
		}

		signedAt := c.now()
		url, err := sign(ctx)
		if err != nil {
			return CacheEntry{}, err
		}

		entry := CacheEntry{URL: url, ExpiryTime: signedAt.Add(ttl)}
		if ttl > c.margin {
			c.Set(key, entry.URL, entry.ExpiryTime)
		}
		return entry, nil
	})
	if err != nil {
		return "", time.Time{}, err
	}

	entry := v.(CacheEntry)
	return entry.URL, entry.ExpiryTime, nil
}

// StartJanitor purges expired entries every interval until ctx is done.
func (c *URLCache) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Clear()
			}
		}
	}()
}
