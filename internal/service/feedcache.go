package service

//
// feedcache.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/config"
)

// CachedFeed is one rendered feed document ready to serve.
type CachedFeed struct {
	SubscriptionID string
	DisplayName    string
	Content        []byte
	ETag           string

	createdAt   time.Time
	lastTouched time.Time
}

// FeedCache keep rendered feeds keyed by token. Entries expire after
// configured TTL; revoked tokens are evicted via RevocationPropagator
// before the revoke call returns.
type FeedCache struct {
	mu      sync.RWMutex
	entries map[string]*CachedFeed
	ttl     time.Duration

	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
}

func NewFeedCache(ttl time.Duration) *FeedCache {
	return &FeedCache{
		entries: make(map[string]*CachedFeed),
		ttl:     ttl,
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_cache_hits_total",
			Help: "Number of feed requests served from cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_cache_misses_total",
			Help: "Number of feed requests that required rendering.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_cache_evictions_total",
			Help: "Number of feed cache entries evicted on revocation.",
		}),
	}
}

// RegisterMetrics register cache counters in default prometheus registry.
func (c *FeedCache) RegisterMetrics() {
	prometheus.DefaultRegisterer.MustRegister(c.hits, c.misses, c.evictions)
}

func NewFeedCacheI(i do.Injector) (*FeedCache, error) {
	conf := do.MustInvoke[config.FeedConf](i)
	cache := NewFeedCache(conf.CacheTTL)

	propagator := do.MustInvoke[*RevocationPropagator](i)
	propagator.Register(cache.onRevoked)

	return cache, nil
}

// Get return cached feed for token or nil when absent or expired.
// Expired entries are dropped so tokens that stop being pulled do not
// hold their bodies until the next sweep.
func (c *FeedCache) Get(token string, now time.Time) *CachedFeed {
	c.mu.RLock()
	entry, ok := c.entries[token]
	c.mu.RUnlock()

	if ok && c.expired(entry, now) {
		c.dropExpired(token, now)

		ok = false
	}

	if !ok {
		c.misses.Inc()

		return nil
	}

	c.hits.Inc()

	return entry
}

func (c *FeedCache) Put(token string, entry *CachedFeed, now time.Time) {
	entry.createdAt = now

	c.mu.Lock()
	c.entries[token] = entry
	c.mu.Unlock()
}

// TouchDue report whether the subscription last-used stamp should be
// written; at most one write per minute per cached entry.
func (c *FeedCache) TouchDue(token string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[token]
	if !ok {
		return true
	}

	if now.Sub(entry.lastTouched) < time.Minute {
		return false
	}

	entry.lastTouched = now

	return true
}

// SweepExpired drop all entries past ttl; called from the background
// maintenance task. Return number of removed entries.
func (c *FeedCache) SweepExpired(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0

	for token, entry := range c.entries {
		if c.expired(entry, now) {
			delete(c.entries, token)

			removed++
		}
	}

	return removed
}

func (c *FeedCache) expired(entry *CachedFeed, now time.Time) bool {
	return now.Sub(entry.createdAt) > c.ttl
}

// dropExpired re-check under write lock; the entry may have been
// refreshed between the read and here.
func (c *FeedCache) dropExpired(token string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[token]; ok && c.expired(entry, now) {
		delete(c.entries, token)
	}
}

func (c *FeedCache) onRevoked(ctx context.Context, token string) {
	c.mu.Lock()
	_, ok := c.entries[token]
	delete(c.entries, token)
	c.mu.Unlock()

	if ok {
		c.evictions.Inc()
		log.Ctx(ctx).Debug().Msg("evicted revoked feed from cache")
	}
}

func (c *FeedCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
