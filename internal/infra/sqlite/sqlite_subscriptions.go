package sqlite

//
// sqlite_subscriptions.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-calsub/internal/aerr"
	"gitlab.com/kabes/go-calsub/internal/db"
	"gitlab.com/kabes/go-calsub/internal/model"
)

const subscriptionColumns = "id, owner_id, calendar_id, token, status, created_at, last_used_at"

func (Repository) GetSubscription(ctx context.Context, ownerID, subscriptionID string) (*model.Subscription, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Str("owner_id", ownerID).Str("subscription_id", subscriptionID).Msg("get subscription")

	dbctx := db.MustCtx(ctx)

	sub := SubscriptionDB{}
	err := dbctx.GetContext(ctx, &sub,
		"SELECT "+subscriptionColumns+" FROM subscriptions WHERE id=? AND owner_id=?",
		subscriptionID, ownerID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoData
	} else if err != nil {
		return nil, aerr.Wrapf(err, "select subscription failed").
			WithMeta("owner_id", ownerID, "subscription_id", subscriptionID)
	}

	return sub.ToModel(), nil
}

func (Repository) GetByToken(ctx context.Context, token string) (*model.Subscription, error) {
	dbctx := db.MustCtx(ctx)

	sub := SubscriptionDB{}
	err := dbctx.GetContext(ctx, &sub,
		"SELECT "+subscriptionColumns+" FROM subscriptions WHERE token=?", token)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoData
	} else if err != nil {
		return nil, aerr.Wrapf(err, "select subscription by token failed")
	}

	return sub.ToModel(), nil
}

func (Repository) ListSubscriptions(ctx context.Context, ownerID string) ([]model.Subscription, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Str("owner_id", ownerID).Msg("list subscriptions")

	dbctx := db.MustCtx(ctx)

	subs := []SubscriptionDB{}
	err := dbctx.SelectContext(ctx, &subs,
		"SELECT "+subscriptionColumns+" FROM subscriptions WHERE owner_id=? ORDER BY created_at, id",
		ownerID)
	if err != nil {
		return nil, aerr.Wrapf(err, "select subscriptions failed").WithMeta("owner_id", ownerID)
	}

	return subscriptionsFromDb(subs), nil
}

func (Repository) SaveSubscription(ctx context.Context, sub *model.Subscription) error {
	logger := log.Ctx(ctx)
	logger.Debug().Str("subscription_id", sub.ID).Str("owner_id", sub.OwnerID).Msg("insert subscription")

	dbctx := db.MustCtx(ctx)

	_, err := dbctx.ExecContext(ctx,
		"INSERT INTO subscriptions (id, owner_id, calendar_id, token, status, created_at, last_used_at) "+
			"VALUES(?, ?, ?, ?, ?, ?, ?)",
		sub.ID, sub.OwnerID, sub.CalendarID, sub.Token, string(sub.Status), sub.CreatedAt, sub.LastUsedAt)
	if err != nil {
		return aerr.Wrapf(err, "insert subscription failed").WithMeta("subscription_id", sub.ID)
	}

	return nil
}

func (Repository) SetStatus(ctx context.Context, subscriptionID string, status model.SubscriptionStatus) error {
	logger := log.Ctx(ctx)
	logger.Debug().Str("subscription_id", subscriptionID).Str("status", string(status)).Msg("set subscription status")

	dbctx := db.MustCtx(ctx)

	_, err := dbctx.ExecContext(ctx,
		"UPDATE subscriptions SET status=? WHERE id=?", string(status), subscriptionID)
	if err != nil {
		return aerr.Wrapf(err, "update subscription status failed").WithMeta("subscription_id", subscriptionID)
	}

	return nil
}

func (Repository) TokenExists(ctx context.Context, token string) (bool, error) {
	dbctx := db.MustCtx(ctx)

	var count int
	err := dbctx.GetContext(ctx, &count, "SELECT count(*) FROM subscriptions WHERE token=?", token)
	if err != nil {
		return false, aerr.Wrapf(err, "count tokens failed")
	}

	return count > 0, nil
}

func (Repository) TouchLastUsed(ctx context.Context, subscriptionID string, ts time.Time) error {
	dbctx := db.MustCtx(ctx)

	_, err := dbctx.ExecContext(ctx,
		"UPDATE subscriptions SET last_used_at=? WHERE id=? AND (last_used_at IS NULL OR last_used_at < ?)",
		ts, subscriptionID, ts)
	if err != nil {
		return aerr.Wrapf(err, "touch subscription failed").WithMeta("subscription_id", subscriptionID)
	}

	return nil
}
