package deezer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fivetwenty-io/deezer/internal/constants"
)

// Cache errors.
var (
	ErrCacheKeyNotFound  = errors.New("key not found")
	ErrCacheEntryExpired = errors.New("entry expired")
	ErrCacheValueTooBig  = errors.New("cache value exceeds maximum size")
)

// CacheEntry is a cached response body.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry is past its expiry at now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Cache is a response cache backend.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

type memoryItem struct {
	entry    *CacheEntry
	inserted uint64
}

// MemoryCache is a bounded in-memory cache. When full, the oldest insertion is evicted.
type MemoryCache struct {
	mu      sync.RWMutex
	items   map[string]memoryItem
	maxSize int
	clock   uint64
	now     func() time.Time
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = constants.DefaultCacheSize
	}

	return &MemoryCache{
		items:   make(map[string]memoryItem),
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get retrieves an entry.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if item.entry.Expired(c.now()) {
		_ = c.Delete(ctx, key)

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return item.entry, nil
}

// Set stores an entry.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	if len(entry.Data) > constants.MaxCacheValueSize {
		return fmt.Errorf("%w: %d bytes", ErrCacheValueTooBig, len(entry.Data))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictOldestLocked()
	}

	c.clock++
	c.items[key] = memoryItem{entry: entry, inserted: c.clock}

	return nil
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)

	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]memoryItem)

	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]

	return ok && !item.entry.Expired(c.now())
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Cleanup drops expired entries.
func (c *MemoryCache) Cleanup() {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, item := range c.items {
		if item.entry.Expired(now) {
			delete(c.items, key)
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (c *MemoryCache) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Cleanup()
			}
		}
	}()
}

func (c *MemoryCache) evictOldestLocked() {
	var (
		oldestKey string
		oldest    uint64
		found     bool
	)

	for key, item := range c.items {
		if !found || item.inserted < oldest {
			oldestKey = key
			oldest = item.inserted
			found = true
		}
	}

	if found {
		delete(c.items, oldestKey)
	}
}

// CacheOptions controls TTLs and what gets cached.
type CacheOptions struct {
	// DefaultTTL applies to paths without a specific TTL.
	DefaultTTL time.Duration
	// PathTTLs maps path prefixes to TTLs; the longest matching prefix wins.
	PathTTLs map[string]time.Duration
	// Policy decides which responses are cached.
	Policy *CachingPolicy
}

// DefaultCacheOptions returns the default cache options.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		DefaultTTL: constants.DefaultCacheTTL,
		PathTTLs: map[string]time.Duration{
			"/chart":  constants.ChartCacheTTL,
			"/search": constants.SearchCacheTTL,
		},
		Policy: DefaultCachingPolicy(),
	}
}

// TTLFor returns the TTL for path.
func (o *CacheOptions) TTLFor(path string) time.Duration {
	ttl := o.DefaultTTL
	longest := -1

	for prefix, prefixTTL := range o.PathTTLs {
		if strings.HasPrefix(path, prefix) && len(prefix) > longest {
			ttl = prefixTTL
			longest = len(prefix)
		}
	}

	return ttl
}

// CachingPolicy decides which responses are cached.
type CachingPolicy struct {
	CacheGET     bool
	CachePOST    bool
	CacheErrors  bool
	IncludePaths []string
	ExcludePaths []string
}

// DefaultCachingPolicy caches successful GETs, except token owner data.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		CacheGET:     true,
		ExcludePaths: []string{"/user/me", "/options"},
	}
}

// ShouldCache reports whether a response may be cached.
func (p *CachingPolicy) ShouldCache(method, path string, statusCode int) bool {
	switch method {
	case http.MethodGet:
		if !p.CacheGET {
			return false
		}
	case http.MethodPost:
		if !p.CachePOST {
			return false
		}
	default:
		return false
	}

	if !p.CacheErrors && (statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices) {
		return false
	}

	for _, excluded := range p.ExcludePaths {
		if strings.HasPrefix(path, excluded) {
			return false
		}
	}

	if len(p.IncludePaths) == 0 {
		return true
	}

	for _, included := range p.IncludePaths {
		if strings.HasPrefix(path, included) {
			return true
		}
	}

	return false
}

// CacheStats counts cache activity.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Sets      int64
	Deletes   int64
	SetErrors int64
}

// GetHitRate returns hits / (hits + misses).
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CacheManager wraps a Cache with key derivation, TTLs and statistics.
type CacheManager struct {
	cache   Cache
	options *CacheOptions
	now     func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	deletes   atomic.Int64
	setErrors atomic.Int64
}

// NewCacheManager creates a cache manager. A nil cache disables caching.
func NewCacheManager(cache Cache, options *CacheOptions) *CacheManager {
	if cache == nil {
		cache = NewNoOpCache()
	}

	if options == nil {
		options = DefaultCacheOptions()
	}

	if options.Policy == nil {
		options.Policy = DefaultCachingPolicy()
	}

	return &CacheManager{
		cache:   cache,
		options: options,
		now:     time.Now,
	}
}

// GetCacheKey derives a stable key from method, path and query parameters.
func (m *CacheManager) GetCacheKey(method, path string, params map[string]string) string {
	if len(params) == 0 {
		return method + ":" + path
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(params[key]))
	}

	return method + ":" + path + ":" + strings.Join(parts, "&")
}

// KeyForQuery derives a key from URL values. Multi-valued parameters keep their first value.
func (m *CacheManager) KeyForQuery(method, path string, query url.Values) string {
	params := make(map[string]string, len(query))
	for key := range query {
		params[key] = query.Get(key)
	}

	return m.GetCacheKey(method, path, params)
}

// ShouldCache applies the caching policy.
func (m *CacheManager) ShouldCache(method, path string, statusCode int) bool {
	return m.options.Policy.ShouldCache(method, path, statusCode)
}

// TTLFor returns the TTL for path.
func (m *CacheManager) TTLFor(path string) time.Duration {
	return m.options.TTLFor(path)
}

// Get retrieves cached data.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		m.misses.Add(1)

		return nil, err
	}

	if entry.Expired(m.now()) {
		m.misses.Add(1)

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	m.hits.Add(1)

	return entry.Data, nil
}

// Set stores data for ttl.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return m.SetWithETag(ctx, key, data, "", ttl)
}

// SetWithETag stores data with an ETag for ttl.
func (m *CacheManager) SetWithETag(ctx context.Context, key string, data []byte, etag string, ttl time.Duration) error {
	entry := &CacheEntry{
		Data:      data,
		ExpiresAt: m.now().Add(ttl),
		ETag:      etag,
	}

	err := m.cache.Set(ctx, key, entry)
	if err != nil {
		m.setErrors.Add(1)

		return fmt.Errorf("storing cache entry: %w", err)
	}

	m.sets.Add(1)

	return nil
}

// Delete evicts a key.
func (m *CacheManager) Delete(ctx context.Context, key string) error {
	m.deletes.Add(1)

	return m.cache.Delete(ctx, key)
}

// Clear empties the cache.
func (m *CacheManager) Clear(ctx context.Context) error {
	return m.cache.Clear(ctx)
}

// GetStats returns a snapshot of the statistics.
func (m *CacheManager) GetStats() *CacheStats {
	return &CacheStats{
		Hits:      m.hits.Load(),
		Misses:    m.misses.Load(),
		Sets:      m.sets.Load(),
		Deletes:   m.deletes.Load(),
		SetErrors: m.setErrors.Load(),
	}
}
