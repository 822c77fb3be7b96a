package service

//
// feed.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"github.com/sethvargo/go-retry"
	"gitlab.com/kabes/go-calsub/internal/aerr"
	"gitlab.com/kabes/go-calsub/internal/common"
	"gitlab.com/kabes/go-calsub/internal/config"
	"gitlab.com/kabes/go-calsub/internal/db"
	"gitlab.com/kabes/go-calsub/internal/feed"
	"gitlab.com/kabes/go-calsub/internal/model"
	"gitlab.com/kabes/go-calsub/internal/repository"
	"gitlab.com/kabes/go-calsub/internal/validators"
)

const sourceRetryBase = 50 * time.Millisecond

// FeedSrv serve rendered iCalendar documents for feed tokens.
type FeedSrv struct {
	db         db.Database
	subsRepo   repository.Subscriptions
	calRepo    repository.Calendars
	eventsRepo repository.Events
	renderer   *feed.Renderer
	cache      *FeedCache
	conf       config.FeedConf
}

func NewFeedSrv(i do.Injector) (*FeedSrv, error) {
	return &FeedSrv{
		db:         do.MustInvoke[db.Database](i),
		subsRepo:   do.MustInvoke[repository.Subscriptions](i),
		calRepo:    do.MustInvoke[repository.Calendars](i),
		eventsRepo: do.MustInvoke[repository.Events](i),
		renderer:   do.MustInvoke[*feed.Renderer](i),
		cache:      do.MustInvoke[*FeedCache](i),
		conf:       do.MustInvoke[config.FeedConf](i),
	}, nil
}

// GetFeed return rendered feed for the token. Malformed and unknown
// tokens are indistinguishable for the caller.
func (s *FeedSrv) GetFeed(ctx context.Context, token string) (*CachedFeed, error) {
	if !validators.IsValidToken(token) {
		return nil, common.ErrUnknownToken
	}

	now := time.Now().UTC()

	if entry := s.cache.Get(token, now); entry != nil {
		s.touchLastUsed(ctx, entry.SubscriptionID, token, now)

		return entry, nil
	}

	entry, err := db.InConnectionR(ctx, s.db, func(ctx context.Context) (*CachedFeed, error) {
		return s.renderFeed(ctx, token)
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	s.cache.Put(token, entry, now)
	s.touchLastUsed(ctx, entry.SubscriptionID, token, now)

	return entry, nil
}

// ------------------------------------------------------

func (s *FeedSrv) renderFeed(ctx context.Context, token string) (*CachedFeed, error) {
	sub, err := s.subsRepo.GetByToken(ctx, token)
	if errors.Is(err, common.ErrNoData) {
		return nil, common.ErrUnknownToken
	} else if err != nil {
		return nil, aerr.ApplyFor(ErrRepositoryError, err)
	}

	if !sub.Active() {
		return nil, common.ErrRevokedToken
	}

	displayName := model.AllEventsName

	if sub.CalendarID != nil {
		cal, err := s.calRepo.GetCalendar(ctx, *sub.CalendarID)
		if err != nil {
			return nil, aerr.ApplyFor(ErrRepositoryError, err)
		}

		displayName = cal.Name
	}

	events, err := s.loadEvents(ctx, sub)
	if err != nil {
		return nil, err
	}

	content := []byte(s.renderer.Render(displayName, events))
	sum := sha256.Sum256(content)
	etag := hex.EncodeToString(sum[:16])

	return &CachedFeed{
		SubscriptionID: sub.ID,
		DisplayName:    displayName,
		Content:        content,
		ETag:           etag,
	}, nil
}

// loadEvents read subscribed events; transient source errors are retried
// with fibonacci backoff before giving up.
func (s *FeedSrv) loadEvents(ctx context.Context, sub *model.Subscription) ([]model.Event, error) {
	var events []model.Event

	backoff := retry.WithMaxRetries(s.conf.SourceRetries, retry.NewFibonacci(sourceRetryBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var lerr error

		if sub.AllEvents() {
			events, lerr = s.eventsRepo.ListOwnerEvents(ctx, sub.OwnerID)
		} else {
			events, lerr = s.eventsRepo.ListCalendarEvents(ctx, *sub.CalendarID)
		}

		if lerr != nil {
			return retry.RetryableError(lerr)
		}

		return nil
	})
	if err != nil {
		return nil, aerr.ApplyFor(aerr.ErrUpstream, err, "load events failed")
	}

	return events, nil
}

// touchLastUsed update subscription last-used stamp, coalesced to at
// most one write per minute. Failures are logged, never propagated;
// serving the feed matters more than the stamp.
func (s *FeedSrv) touchLastUsed(ctx context.Context, subscriptionID, token string, now time.Time) {
	if !s.cache.TouchDue(token, now) {
		return
	}

	ts := now.Truncate(time.Minute)

	err := db.InConnection(ctx, s.db, func(ctx context.Context) error {
		return s.subsRepo.TouchLastUsed(ctx, subscriptionID, ts)
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str(common.LogKeySubscriptionID, subscriptionID).
			Msg("update last used stamp failed")
	}
}
