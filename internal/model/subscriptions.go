//
// subscriptions.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package model

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive  = SubscriptionStatus("active")
	SubscriptionRevoked = SubscriptionStatus("revoked")
)

// AllEventsName is the display name for subscriptions without calendar.
const AllEventsName = "All My Events"

// ------------------------------------------------------

// Subscription is one minted feed address. Rows are never deleted;
// revocation only flips Status.
type Subscription struct {
	ID        string
	OwnerID   string
	Token     string
	Status    SubscriptionStatus
	CreatedAt time.Time

	// CalendarID is nil for all-events subscriptions.
	CalendarID *string
	// LastUsedAt is nil until the feed is pulled for the first time.
	LastUsedAt *time.Time
}

func (s *Subscription) Active() bool {
	return s.Status == SubscriptionActive
}

func (s *Subscription) AllEvents() bool {
	return s.CalendarID == nil
}

// ------------------------------------------------------

// SubscriptionInfo is Subscription with the display name recomputed
// from the current calendar name; never persisted.
type SubscriptionInfo struct {
	Subscription

	DisplayName string
}
