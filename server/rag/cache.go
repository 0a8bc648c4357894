package rag

import (
	"sync"
	"time"
)

type cacheEntry struct {
	text      string
	createdAt time.Time
}

// ExplanationCache is a topic-keyed cache for generated explanations.
// Entries expire lazily on read after the configured cooldown; expiry is
// "absent", never an error. The topic space is bounded, so there is no
// active eviction.
type ExplanationCache struct {
	cooldown time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry

	now func() time.Time
}

// NewExplanationCache creates a cache with the given cooldown window.
func NewExplanationCache(cooldown time.Duration) *ExplanationCache {
	return &ExplanationCache{
		cooldown: cooldown,
		entries:  make(map[string]cacheEntry),
		now:      time.Now,
	}
}

// Get returns the cached explanation for a topic, or false when no entry
// exists or the entry's age exceeds the cooldown window.
func (c *ExplanationCache) Get(topic string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[topic]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.createdAt) > c.cooldown {
		return "", false
	}
	return entry.text, true
}

// Set stores an explanation for a topic, overwriting any existing entry.
func (c *ExplanationCache) Set(topic, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[topic] = cacheEntry{text: text, createdAt: c.now()}
}
