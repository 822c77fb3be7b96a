// Package repository define interfaces for data access; implementations
// live in internal/infra.
package repository

//
// mod.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"time"

	"gitlab.com/kabes/go-calsub/internal/model"
)

// ------------------------------------------------------

// Subscriptions is the token store. Methods return common.ErrNoData when
// nothing matches.
type Subscriptions interface {
	// GetSubscription load subscription by id, scoped to the owner.
	GetSubscription(ctx context.Context, ownerID, subscriptionID string) (*model.Subscription, error)
	// GetByToken is the single feed-pull lookup; token is unique over
	// all rows, revoked included.
	GetByToken(ctx context.Context, token string) (*model.Subscription, error)
	// ListSubscriptions return all owner's subscriptions, oldest first,
	// every status.
	ListSubscriptions(ctx context.Context, ownerID string) ([]model.Subscription, error)
	SaveSubscription(ctx context.Context, sub *model.Subscription) error
	SetStatus(ctx context.Context, subscriptionID string, status model.SubscriptionStatus) error
	TokenExists(ctx context.Context, token string) (bool, error)
	// TouchLastUsed record a feed pull; updates only when newer than the
	// stored value.
	TouchLastUsed(ctx context.Context, subscriptionID string, ts time.Time) error
}

type Calendars interface {
	GetCalendar(ctx context.Context, calendarID string) (*model.Calendar, error)
	ListCalendars(ctx context.Context, ownerID string) ([]model.Calendar, error)
	SaveCalendar(ctx context.Context, cal *model.Calendar) error
}

// Events read the event source tables; occurrences are pre-expanded.
type Events interface {
	ListCalendarEvents(ctx context.Context, calendarID string) ([]model.Event, error)
	ListOwnerEvents(ctx context.Context, ownerID string) ([]model.Event, error)
	SaveEvent(ctx context.Context, event *model.Event) error
}

type Maintenance interface {
	Maintenance(ctx context.Context) error
}
