package service

//
// feed_test.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"strings"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/assert"
	"gitlab.com/kabes/go-calsub/internal/command"
	"gitlab.com/kabes/go-calsub/internal/common"
	"gitlab.com/kabes/go-calsub/internal/query"
)

func TestGetFeed(t *testing.T) {
	ctx, i := prepareTests(t)
	calID := prepareTestCalendar(ctx, t, i, "alice", "Team")
	prepareTestEvent(ctx, t, i, calID, "standup", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))
	sub := prepareTestSubscription(ctx, t, i, "alice", &calID)

	feedSrv := do.MustInvoke[*FeedSrv](i)
	res, err := feedSrv.GetFeed(ctx, sub.Token)
	assert.NoErr(t, err)
	assert.Equal(t, res.DisplayName, "Team")
	assert.True(t, res.ETag != "")

	content := string(res.Content)
	assert.True(t, strings.Contains(content, "BEGIN:VCALENDAR"))
	assert.True(t, strings.Contains(content, "SUMMARY:standup"))
	assert.True(t, strings.Contains(content, "X-WR-CALNAME:Team"))
}

func TestGetFeedAllEvents(t *testing.T) {
	ctx, i := prepareTests(t)
	cal1 := prepareTestCalendar(ctx, t, i, "alice", "Team")
	cal2 := prepareTestCalendar(ctx, t, i, "alice", "Private")
	prepareTestEvent(ctx, t, i, cal1, "standup", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))
	prepareTestEvent(ctx, t, i, cal2, "dentist", time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC))

	// events of other owners must not leak in
	calBob := prepareTestCalendar(ctx, t, i, "bob", "Bob cal")
	prepareTestEvent(ctx, t, i, calBob, "secret", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))

	sub := prepareTestSubscription(ctx, t, i, "alice", nil)

	feedSrv := do.MustInvoke[*FeedSrv](i)
	res, err := feedSrv.GetFeed(ctx, sub.Token)
	assert.NoErr(t, err)
	assert.Equal(t, res.DisplayName, "All My Events")

	content := string(res.Content)
	assert.True(t, strings.Contains(content, "SUMMARY:standup"))
	assert.True(t, strings.Contains(content, "SUMMARY:dentist"))
	assert.True(t, !strings.Contains(content, "SUMMARY:secret"))
}

func TestGetFeedUnknownToken(t *testing.T) {
	ctx, i := prepareTests(t)

	feedSrv := do.MustInvoke[*FeedSrv](i)
	_, err := feedSrv.GetFeed(ctx, strings.Repeat("a", 64))
	assert.ErrSpec(t, err, common.ErrUnknownToken)
}

func TestGetFeedMalformedToken(t *testing.T) {
	ctx, i := prepareTests(t)

	feedSrv := do.MustInvoke[*FeedSrv](i)

	// malformed tokens look exactly like unknown ones
	for _, token := range []string{"", "short", strings.Repeat("a", 63) + "!"} {
		_, err := feedSrv.GetFeed(ctx, token)
		assert.ErrSpec(t, err, common.ErrUnknownToken)
	}
}

func TestGetFeedCached(t *testing.T) {
	ctx, i := prepareTests(t)
	calID := prepareTestCalendar(ctx, t, i, "alice", "Team")
	prepareTestEvent(ctx, t, i, calID, "standup", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))
	sub := prepareTestSubscription(ctx, t, i, "alice", &calID)

	feedSrv := do.MustInvoke[*FeedSrv](i)
	res1, err := feedSrv.GetFeed(ctx, sub.Token)
	assert.NoErr(t, err)

	res2, err := feedSrv.GetFeed(ctx, sub.Token)
	assert.NoErr(t, err)
	assert.Equal(t, res1.ETag, res2.ETag)
	assert.Equal(t, res1.Content, res2.Content)
}

func TestGetFeedRevoked(t *testing.T) {
	ctx, i := prepareTests(t)
	sub := prepareTestSubscription(ctx, t, i, "alice", nil)

	subsSrv := do.MustInvoke[*SubscriptionsSrv](i)
	_, err := subsSrv.RevokeSubscription(ctx, &command.RevokeSubscriptionCmd{
		OwnerID:        "alice",
		SubscriptionID: sub.ID,
	})
	assert.NoErr(t, err)

	feedSrv := do.MustInvoke[*FeedSrv](i)
	_, err = feedSrv.GetFeed(ctx, sub.Token)
	assert.ErrSpec(t, err, common.ErrRevokedToken)
}

func TestRevokeEvictsCachedFeed(t *testing.T) {
	ctx, i := prepareTests(t)
	calID := prepareTestCalendar(ctx, t, i, "alice", "Team")
	sub := prepareTestSubscription(ctx, t, i, "alice", &calID)

	feedSrv := do.MustInvoke[*FeedSrv](i)
	_, err := feedSrv.GetFeed(ctx, sub.Token)
	assert.NoErr(t, err)

	cache := do.MustInvoke[*FeedCache](i)
	assert.Equal(t, cache.Len(), 1)

	subsSrv := do.MustInvoke[*SubscriptionsSrv](i)
	_, err = subsSrv.RevokeSubscription(ctx, &command.RevokeSubscriptionCmd{
		OwnerID:        "alice",
		SubscriptionID: sub.ID,
	})
	assert.NoErr(t, err)

	// cache dropped before revoke returned; next pull must fail
	assert.Equal(t, cache.Len(), 0)

	_, err = feedSrv.GetFeed(ctx, sub.Token)
	assert.ErrSpec(t, err, common.ErrRevokedToken)
}

func TestGetFeedTouchesLastUsed(t *testing.T) {
	ctx, i := prepareTests(t)
	sub := prepareTestSubscription(ctx, t, i, "alice", nil)
	assert.True(t, sub.LastUsedAt == nil)

	feedSrv := do.MustInvoke[*FeedSrv](i)
	_, err := feedSrv.GetFeed(ctx, sub.Token)
	assert.NoErr(t, err)

	subsSrv := do.MustInvoke[*SubscriptionsSrv](i)
	subs, err := subsSrv.ListSubscriptions(ctx, &query.ListSubscriptionsQuery{OwnerID: "alice"})
	assert.NoErr(t, err)
	assert.True(t, subs[0].LastUsedAt != nil)
}
