package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	"recipe-planner/internal/logger"
	"recipe-planner/internal/storage"
)

// CacheKey is where cached responses are persisted.
const CacheKey = "rp_llmCache"

// DefaultMaxCacheEntries bounds the cache when no limit is given.
const DefaultMaxCacheEntries = 200

type cacheEntry struct {
	Content string `json:"content"`
	Seq     int64  `json:"seq"`
}

// CachedTextGenerator wraps a TextGenerator and remembers responses by
// prompt, so clipping the same page twice costs one request. Cache hits
// report zero token usage.
type CachedTextGenerator struct {
	realGen    TextGenerator
	store      storage.Store
	log        *logger.Logger
	maxEntries int
	mu         sync.Mutex
}

// CacheOption configures a CachedTextGenerator.
type CacheOption func(*CachedTextGenerator)

// WithMaxEntries keeps at most n responses; the oldest are evicted first.
func WithMaxEntries(n int) CacheOption {
	return func(c *CachedTextGenerator) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

func NewCachedTextGenerator(realGen TextGenerator, store storage.Store, log *logger.Logger, opts ...CacheOption) *CachedTextGenerator {
	c := &CachedTextGenerator{realGen: realGen, store: store, log: log, maxEntries: DefaultMaxCacheEntries}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateContent checks the cache first. On a miss it calls the real
// generator and stores the result.
func (c *CachedTextGenerator) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := promptHash(prompt)
	cache, err := c.load(ctx)
	if err != nil {
		return ContentResponse{}, err
	}
	if e, ok := cache[key]; ok {
		c.log.Debug("llm cache hit", "prompt_hash", key)
		return ContentResponse{Content: e.Content}, nil
	}

	resp, err := c.realGen.GenerateContent(ctx, prompt)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to generate content using real generator: %w", err)
	}

	cache[key] = cacheEntry{Content: resp.Content, Seq: nextSeq(cache)}
	if evicted := evictOldest(cache, c.maxEntries); evicted > 0 {
		c.log.Debug("llm cache evicted entries", "count", evicted)
	}
	if err := storage.SaveJSON(ctx, c.store, CacheKey, cache); err != nil {
		c.log.Warn("failed to persist llm cache", "error", err)
	}
	return resp, nil
}

// Close closes the wrapped generator.
func (c *CachedTextGenerator) Close() error {
	return Close(c.realGen)
}

func (c *CachedTextGenerator) load(ctx context.Context) (map[string]cacheEntry, error) {
	var cache map[string]cacheEntry
	if _, err := storage.LoadJSON(ctx, c.store, CacheKey, &cache); err != nil {
		if !storage.IsCorrupt(err) {
			return nil, err
		}
		c.log.Warn("discarding unreadable llm cache", "error", err)
	}
	if cache == nil {
		cache = map[string]cacheEntry{}
	}
	return cache, nil
}

func nextSeq(cache map[string]cacheEntry) int64 {
	var top int64
	for _, e := range cache {
		if e.Seq > top {
			top = e.Seq
		}
	}
	return top + 1
}

// evictOldest drops the lowest-sequence entries until at most limit remain.
func evictOldest(cache map[string]cacheEntry, limit int) int {
	extra := len(cache) - limit
	if extra <= 0 {
		return 0
	}
	keys := make([]string, 0, len(cache))
	for k := range cache {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return cache[keys[i]].Seq < cache[keys[j]].Seq })
	for _, k := range keys[:extra] {
		delete(cache, k)
	}
	return extra
}

func promptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
