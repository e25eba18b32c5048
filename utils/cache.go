package utils

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

const defaultCacheTTL = time.Minute

type memCacheEntry struct {
	value     []byte
	expiresAt time.Time
}

var (
	memCache   = map[string]memCacheEntry{}
	memCacheMu sync.Mutex
)

// CacheGetBytes returns cached bytes for a key, preferring Redis and falling
// back to the in-process map (single-instance only).
func CacheGetBytes(key string) ([]byte, bool) {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		b, err := rc.Get(ctx, key).Bytes()
		if err != nil {
			return nil, false
		}
		return b, true
	}

	memCacheMu.Lock()
	defer memCacheMu.Unlock()
	entry, ok := memCache[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(memCache, key)
		return nil, false
	}
	return entry.value, true
}

// CacheSetBytes stores bytes with the given TTL.
func CacheSetBytes(key string, b []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, key, b, ttl).Err(); err != nil {
			Sugar.Warnf("cache set failed key=%s err=%v", key, err)
		}
		return
	}

	memCacheMu.Lock()
	memCache[key] = memCacheEntry{value: b, expiresAt: time.Now().Add(ttl)}
	memCacheMu.Unlock()
}

// CacheGetJSON unmarshals a cached value into out.
func CacheGetJSON(key string, out any) bool {
	b, ok := CacheGetBytes(key)
	if !ok {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

// CacheSetJSON marshals v and stores JSON bytes.
func CacheSetJSON(key string, v interface{}, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	CacheSetBytes(key, b, ttl)
}
