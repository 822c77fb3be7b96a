package service

//
// subscriptions_test.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"testing"

	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/assert"
	"gitlab.com/kabes/go-calsub/internal/command"
	"gitlab.com/kabes/go-calsub/internal/common"
	"gitlab.com/kabes/go-calsub/internal/model"
	"gitlab.com/kabes/go-calsub/internal/query"
)

func TestCreateSubscriptionForCalendar(t *testing.T) {
	ctx, i := prepareTests(t)
	calID := prepareTestCalendar(ctx, t, i, "alice", "Team")

	subsSrv := do.MustInvoke[*SubscriptionsSrv](i)
	sub, err := subsSrv.CreateSubscription(ctx, &command.CreateSubscriptionCmd{
		OwnerID:    "alice",
		CalendarID: &calID,
	})
	assert.NoErr(t, err)
	assert.Equal(t, sub.DisplayName, "Team")
	assert.Equal(t, sub.Status, model.SubscriptionActive)
	assert.Equal(t, len(sub.Token), 64)
	assert.True(t, sub.LastUsedAt == nil)
}

func TestCreateSubscriptionAllEvents(t *testing.T) {
	ctx, i := prepareTests(t)

	subsSrv := do.MustInvoke[*SubscriptionsSrv](i)
	sub, err := subsSrv.CreateSubscription(ctx, &command.CreateSubscriptionCmd{OwnerID: "alice"})
	assert.NoErr(t, err)
	assert.Equal(t, sub.DisplayName, model.AllEventsName)
	assert.True(t, sub.AllEvents())
}

func TestCreateSubscriptionUnknownCalendar(t *testing.T) {
	ctx, i := prepareTests(t)

	calID := "aaaaaaaaaaaaaaaaaaaa"
	subsSrv := do.MustInvoke[*SubscriptionsSrv](i)
	_, err := subsSrv.CreateSubscription(ctx, &command.CreateSubscriptionCmd{
		OwnerID:    "alice",
		CalendarID: &calID,
	})
	assert.ErrSpec(t, err, common.ErrUnknownCalendar)
}

func TestCreateSubscriptionForeignCalendar(t *testing.T) {
	ctx, i := prepareTests(t)
	calID := prepareTestCalendar(ctx, t, i, "bob", "Bob cal")

	subsSrv := do.MustInvoke[*SubscriptionsSrv](i)
	_, err := subsSrv.CreateSubscription(ctx, &command.CreateSubscriptionCmd{
		OwnerID:    "alice",
		CalendarID: &calID,
	})
	assert.ErrSpec(t, err, common.ErrUnknownCalendar)
}

func TestCreateSubscriptionUniqueTokens(t *testing.T) {
	ctx, i := prepareTests(t)

	subsSrv := do.MustInvoke[*SubscriptionsSrv](i)
	tokens := make(map[string]bool)

	for range 10 {
		sub, err := subsSrv.CreateSubscription(ctx, &command.CreateSubscriptionCmd{OwnerID: "alice"})
		assert.NoErr(t, err)
		assert.True(t, !tokens[sub.Token])
		tokens[sub.Token] = true
	}
}

func TestListSubscriptions(t *testing.T) {
	ctx, i := prepareTests(t)
	calID := prepareTestCalendar(ctx, t, i, "alice", "Team")

	prepareTestSubscription(ctx, t, i, "alice", &calID)
	prepareTestSubscription(ctx, t, i, "alice", nil)
	prepareTestSubscription(ctx, t, i, "bob", nil)

	subsSrv := do.MustInvoke[*SubscriptionsSrv](i)
	subs, err := subsSrv.ListSubscriptions(ctx, &query.ListSubscriptionsQuery{OwnerID: "alice"})
	assert.NoErr(t, err)
	assert.Equal(t, len(subs), 2)
	assert.Equal(t, subs[0].DisplayName, "Team")
	assert.Equal(t, subs[1].DisplayName, model.AllEventsName)
}

func TestRevokeSubscription(t *testing.T) {
	ctx, i := prepareTests(t)
	sub := prepareTestSubscription(ctx, t, i, "alice", nil)

	subsSrv := do.MustInvoke[*SubscriptionsSrv](i)
	res, err := subsSrv.RevokeSubscription(ctx, &command.RevokeSubscriptionCmd{
		OwnerID:        "alice",
		SubscriptionID: sub.ID,
	})
	assert.NoErr(t, err)
	assert.True(t, !res.AlreadyRevoked)

	subs, err := subsSrv.ListSubscriptions(ctx, &query.ListSubscriptionsQuery{OwnerID: "alice"})
	assert.NoErr(t, err)
	assert.Equal(t, len(subs), 1)
	assert.Equal(t, subs[0].Status, model.SubscriptionRevoked)

	// second revoke is a no-op
	res, err = subsSrv.RevokeSubscription(ctx, &command.RevokeSubscriptionCmd{
		OwnerID:        "alice",
		SubscriptionID: sub.ID,
	})
	assert.NoErr(t, err)
	assert.True(t, res.AlreadyRevoked)
}

func TestRevokeSubscriptionUnknown(t *testing.T) {
	ctx, i := prepareTests(t)

	subsSrv := do.MustInvoke[*SubscriptionsSrv](i)
	_, err := subsSrv.RevokeSubscription(ctx, &command.RevokeSubscriptionCmd{
		OwnerID:        "alice",
		SubscriptionID: "aaaaaaaaaaaaaaaaaaaa",
	})
	assert.ErrSpec(t, err, common.ErrUnknownSubscription)
}

func TestRevokeSubscriptionForeignOwner(t *testing.T) {
	ctx, i := prepareTests(t)
	sub := prepareTestSubscription(ctx, t, i, "alice", nil)

	subsSrv := do.MustInvoke[*SubscriptionsSrv](i)
	_, err := subsSrv.RevokeSubscription(ctx, &command.RevokeSubscriptionCmd{
		OwnerID:        "bob",
		SubscriptionID: sub.ID,
	})
	assert.ErrSpec(t, err, common.ErrUnknownSubscription)

	// subscription still active for real owner
	subs, err := subsSrv.ListSubscriptions(ctx, &query.ListSubscriptionsQuery{OwnerID: "alice"})
	assert.NoErr(t, err)
	assert.Equal(t, subs[0].Status, model.SubscriptionActive)
}
