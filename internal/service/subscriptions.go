package service

//
// subscriptions.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/aerr"
	"gitlab.com/kabes/go-calsub/internal/command"
	"gitlab.com/kabes/go-calsub/internal/common"
	"gitlab.com/kabes/go-calsub/internal/db"
	"gitlab.com/kabes/go-calsub/internal/model"
	"gitlab.com/kabes/go-calsub/internal/query"
	"gitlab.com/kabes/go-calsub/internal/repository"
)

const (
	tokenRandomBytes  = 48
	tokenMintAttempts = 5
)

type SubscriptionsSrv struct {
	db         db.Database
	subsRepo   repository.Subscriptions
	calRepo    repository.Calendars
	propagator *RevocationPropagator
}

func NewSubscriptionsSrv(i do.Injector) (*SubscriptionsSrv, error) {
	return &SubscriptionsSrv{
		db:         do.MustInvoke[db.Database](i),
		subsRepo:   do.MustInvoke[repository.Subscriptions](i),
		calRepo:    do.MustInvoke[repository.Calendars](i),
		propagator: do.MustInvoke[*RevocationPropagator](i),
	}, nil
}

// CreateSubscription mint a new feed token for the owner. When
// cmd.CalendarID is set the calendar must exist and belong to the owner.
func (s *SubscriptionsSrv) CreateSubscription(ctx context.Context, cmd *command.CreateSubscriptionCmd,
) (*model.SubscriptionInfo, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	//nolint:wrapcheck
	return db.InTransactionR(ctx, s.db, func(ctx context.Context) (*model.SubscriptionInfo, error) {
		displayName := model.AllEventsName

		if cmd.CalendarID != nil {
			cal, err := s.calRepo.GetCalendar(ctx, *cmd.CalendarID)
			if errors.Is(err, common.ErrNoData) {
				return nil, common.ErrUnknownCalendar
			} else if err != nil {
				return nil, aerr.ApplyFor(ErrRepositoryError, err)
			}

			// calendars of other owners must look like missing ones
			if cal.OwnerID != cmd.OwnerID {
				return nil, common.ErrUnknownCalendar
			}

			displayName = cal.Name
		}

		token, err := s.mintToken(ctx)
		if err != nil {
			return nil, err
		}

		sub := model.Subscription{
			ID:         xid.New().String(),
			OwnerID:    cmd.OwnerID,
			CalendarID: cmd.CalendarID,
			Token:      token,
			Status:     model.SubscriptionActive,
			CreatedAt:  time.Now().UTC(),
		}

		if err := s.subsRepo.SaveSubscription(ctx, &sub); err != nil {
			return nil, aerr.ApplyFor(ErrRepositoryError, err)
		}

		log.Ctx(ctx).Info().Str(common.LogKeySubscriptionID, sub.ID).
			Str(common.LogKeyOwnerID, sub.OwnerID).Msg("subscription created")

		return &model.SubscriptionInfo{Subscription: sub, DisplayName: displayName}, nil
	})
}

// ListSubscriptions return all owner's subscriptions, active and revoked,
// with display names recomputed from current calendar names.
func (s *SubscriptionsSrv) ListSubscriptions(ctx context.Context, q *query.ListSubscriptionsQuery,
) ([]model.SubscriptionInfo, error) {
	if err := q.Validate(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	//nolint:wrapcheck
	return db.InConnectionR(ctx, s.db, func(ctx context.Context) ([]model.SubscriptionInfo, error) {
		subs, err := s.subsRepo.ListSubscriptions(ctx, q.OwnerID)
		if err != nil {
			return nil, aerr.ApplyFor(ErrRepositoryError, err)
		}

		cals, err := s.calRepo.ListCalendars(ctx, q.OwnerID)
		if err != nil {
			return nil, aerr.ApplyFor(ErrRepositoryError, err)
		}

		calNames := make(map[string]string, len(cals))
		for _, cal := range cals {
			calNames[cal.ID] = cal.Name
		}

		res := make([]model.SubscriptionInfo, len(subs))
		for i, sub := range subs {
			name := model.AllEventsName
			if sub.CalendarID != nil {
				name = calNames[*sub.CalendarID]
			}

			res[i] = model.SubscriptionInfo{Subscription: sub, DisplayName: name}
		}

		return res, nil
	})
}

// RevokeSubscription flip subscription status to revoked. Revoking an
// already revoked subscription is a no-op. The row is never deleted.
func (s *SubscriptionsSrv) RevokeSubscription(ctx context.Context, cmd *command.RevokeSubscriptionCmd,
) (command.RevokeSubscriptionCmdResult, error) {
	if err := cmd.Validate(); err != nil {
		return command.RevokeSubscriptionCmdResult{}, err //nolint:wrapcheck
	}

	type revokeRes struct {
		token          string
		alreadyRevoked bool
	}

	res, err := db.InTransactionR(ctx, s.db, func(ctx context.Context) (revokeRes, error) {
		sub, err := s.subsRepo.GetSubscription(ctx, cmd.OwnerID, cmd.SubscriptionID)
		if errors.Is(err, common.ErrNoData) {
			return revokeRes{}, common.ErrUnknownSubscription
		} else if err != nil {
			return revokeRes{}, aerr.ApplyFor(ErrRepositoryError, err)
		}

		if !sub.Active() {
			return revokeRes{token: sub.Token, alreadyRevoked: true}, nil
		}

		if err := s.subsRepo.SetStatus(ctx, sub.ID, model.SubscriptionRevoked); err != nil {
			return revokeRes{}, aerr.ApplyFor(ErrRepositoryError, err)
		}

		log.Ctx(ctx).Info().Str(common.LogKeySubscriptionID, sub.ID).
			Str(common.LogKeyOwnerID, sub.OwnerID).Msg("subscription revoked")

		return revokeRes{token: sub.Token}, nil
	})
	if err != nil {
		return command.RevokeSubscriptionCmdResult{}, err //nolint:wrapcheck
	}

	// evict caches before reporting success; re-publish on repeated
	// revoke is harmless
	s.propagator.Publish(ctx, res.token)

	return command.RevokeSubscriptionCmdResult{AlreadyRevoked: res.alreadyRevoked}, nil
}

// ------------------------------------------------------

// mintToken generate an unique feed token. Collisions are practically
// impossible but the unique index makes them fatal, so check anyway.
func (s *SubscriptionsSrv) mintToken(ctx context.Context) (string, error) {
	for range tokenMintAttempts {
		buf := make([]byte, tokenRandomBytes)
		if _, err := rand.Read(buf); err != nil {
			return "", aerr.Wrapf(err, "generate token failed").WithTag(aerr.InternalError)
		}

		token := base64.RawURLEncoding.EncodeToString(buf)

		exists, err := s.subsRepo.TokenExists(ctx, token)
		if err != nil {
			return "", aerr.ApplyFor(ErrRepositoryError, err)
		}

		if !exists {
			return token, nil
		}
	}

	return "", aerr.New("token collision").WithTag(aerr.InternalError)
}
