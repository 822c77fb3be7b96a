package service

//
// feedcache_test.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"testing"
	"time"

	"gitlab.com/kabes/go-calsub/internal/assert"
)

func TestFeedCacheExpiry(t *testing.T) {
	cache := NewFeedCache(time.Minute)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	cache.Put("token1", &CachedFeed{SubscriptionID: "s1", Content: []byte("data")}, now)

	assert.True(t, cache.Get("token1", now) != nil)
	assert.True(t, cache.Get("token1", now.Add(30*time.Second)) != nil)
	assert.True(t, cache.Get("token1", now.Add(2*time.Minute)) == nil)
	assert.True(t, cache.Get("other", now) == nil)

	// expired entry is dropped, not just hidden
	assert.Equal(t, cache.Len(), 0)
}

func TestFeedCacheSweepExpired(t *testing.T) {
	cache := NewFeedCache(time.Minute)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	cache.Put("token1", &CachedFeed{SubscriptionID: "s1"}, now)
	cache.Put("token2", &CachedFeed{SubscriptionID: "s2"}, now.Add(90*time.Second))
	assert.Equal(t, cache.Len(), 2)

	assert.Equal(t, cache.SweepExpired(now.Add(30*time.Second)), 0)
	assert.Equal(t, cache.Len(), 2)

	assert.Equal(t, cache.SweepExpired(now.Add(2*time.Minute)), 1)
	assert.Equal(t, cache.Len(), 1)
	assert.True(t, cache.Get("token2", now.Add(2*time.Minute)) != nil)

	assert.Equal(t, cache.SweepExpired(now.Add(time.Hour)), 1)
	assert.Equal(t, cache.Len(), 0)
}

func TestFeedCacheTouchDue(t *testing.T) {
	cache := NewFeedCache(time.Hour)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// no entry yet - always due
	assert.True(t, cache.TouchDue("token1", now))

	cache.Put("token1", &CachedFeed{SubscriptionID: "s1"}, now)

	assert.True(t, cache.TouchDue("token1", now))
	assert.True(t, !cache.TouchDue("token1", now.Add(10*time.Second)))
	assert.True(t, !cache.TouchDue("token1", now.Add(59*time.Second)))
	assert.True(t, cache.TouchDue("token1", now.Add(2*time.Minute)))
}

func TestFeedCacheEvictOnRevoke(t *testing.T) {
	cache := NewFeedCache(time.Hour)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	cache.Put("token1", &CachedFeed{SubscriptionID: "s1"}, now)
	cache.Put("token2", &CachedFeed{SubscriptionID: "s2"}, now)
	assert.Equal(t, cache.Len(), 2)

	cache.onRevoked(context.Background(), "token1")
	assert.Equal(t, cache.Len(), 1)
	assert.True(t, cache.Get("token1", now) == nil)
	assert.True(t, cache.Get("token2", now) != nil)

	// evicting unknown token is harmless
	cache.onRevoked(context.Background(), "nosuchtoken")
	assert.Equal(t, cache.Len(), 1)
}
