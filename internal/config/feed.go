package config

//
// feed.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"time"

	"gitlab.com/kabes/go-calsub/internal/aerr"
)

// FeedConf configure feed rendering and caching.
type FeedConf struct {
	// Domain used in event UIDs and calendar names.
	Domain string
	// CacheTTL is how long a rendered feed may be served from memory.
	CacheTTL time.Duration
	// ClientMaxAge is advertised to calendar clients via Cache-Control.
	ClientMaxAge time.Duration
	// SourceRetries limit event source read attempts per request.
	SourceRetries uint64
}

func NewFeedConf(domain string, cachettl, maxage time.Duration, retries uint64) FeedConf {
	return FeedConf{
		Domain:        domain,
		CacheTTL:      cachettl,
		ClientMaxAge:  maxage,
		SourceRetries: retries,
	}
}

func (c *FeedConf) Validate() error {
	if c.Domain == "" {
		return aerr.ErrValidation.WithUserMsg("feed.domain argument can't be empty")
	}

	if c.CacheTTL < 0 {
		return aerr.ErrValidation.WithUserMsg("feed.cache-ttl can't be negative")
	}

	if c.ClientMaxAge < time.Minute {
		return aerr.ErrValidation.WithUserMsg("feed.max-age must be at least one minute")
	}

	if c.SourceRetries == 0 {
		return aerr.ErrValidation.WithUserMsg("feed.source-retries must be positive")
	}

	return nil
}
