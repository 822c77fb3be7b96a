package service

//
// calendars_test.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"testing"
	"time"

	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/assert"
	"gitlab.com/kabes/go-calsub/internal/command"
	"gitlab.com/kabes/go-calsub/internal/common"
	"gitlab.com/kabes/go-calsub/internal/query"
)

func TestCreateAndListCalendars(t *testing.T) {
	ctx, i := prepareTests(t)

	calsSrv := do.MustInvoke[*CalendarsSrv](i)
	_, err := calsSrv.CreateCalendar(ctx, &command.NewCalendarCmd{OwnerID: "alice", Name: "Team"})
	assert.NoErr(t, err)
	_, err = calsSrv.CreateCalendar(ctx, &command.NewCalendarCmd{OwnerID: "alice", Name: "Private"})
	assert.NoErr(t, err)
	_, err = calsSrv.CreateCalendar(ctx, &command.NewCalendarCmd{OwnerID: "bob", Name: "Bob cal"})
	assert.NoErr(t, err)

	cals, err := calsSrv.ListCalendars(ctx, &query.ListCalendarsQuery{OwnerID: "alice"})
	assert.NoErr(t, err)
	assert.Equal(t, len(cals), 2)
	// sorted by name
	assert.Equal(t, cals[0].Name, "Private")
	assert.Equal(t, cals[1].Name, "Team")
}

func TestCreateCalendarValidation(t *testing.T) {
	ctx, i := prepareTests(t)

	calsSrv := do.MustInvoke[*CalendarsSrv](i)
	_, err := calsSrv.CreateCalendar(ctx, &command.NewCalendarCmd{OwnerID: "", Name: "Team"})
	assert.Err(t, err)

	_, err = calsSrv.CreateCalendar(ctx, &command.NewCalendarCmd{OwnerID: "alice", Name: ""})
	assert.Err(t, err)
}

func TestCreateEventUnknownCalendar(t *testing.T) {
	ctx, i := prepareTests(t)

	eventsSrv := do.MustInvoke[*EventsSrv](i)
	_, err := eventsSrv.CreateEvent(ctx, &command.NewEventCmd{
		CalendarID: "aaaaaaaaaaaaaaaaaaaa",
		Title:      "standup",
		StartsAt:   time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
	})
	assert.ErrSpec(t, err, common.ErrUnknownCalendar)
}

func TestCreateEventEndBeforeStart(t *testing.T) {
	ctx, i := prepareTests(t)
	calID := prepareTestCalendar(ctx, t, i, "alice", "Team")

	eventsSrv := do.MustInvoke[*EventsSrv](i)
	_, err := eventsSrv.CreateEvent(ctx, &command.NewEventCmd{
		CalendarID: calID,
		Title:      "standup",
		StartsAt:   time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndsAt:     time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
	})
	assert.Err(t, err)
}

func TestCreateAndListEvents(t *testing.T) {
	ctx, i := prepareTests(t)
	calID := prepareTestCalendar(ctx, t, i, "alice", "Team")
	prepareTestEvent(ctx, t, i, calID, "later", time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC))
	prepareTestEvent(ctx, t, i, calID, "earlier", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))

	eventsSrv := do.MustInvoke[*EventsSrv](i)
	events, err := eventsSrv.ListCalendarEvents(ctx, calID)
	assert.NoErr(t, err)
	assert.Equal(t, len(events), 2)
	// ordered by start time
	assert.Equal(t, events[0].Title, "earlier")
	assert.Equal(t, events[1].Title, "later")
}

func TestMaintainDatabase(t *testing.T) {
	ctx, i := prepareTests(t)
	calID := prepareTestCalendar(ctx, t, i, "alice", "Team")
	prepareTestEvent(ctx, t, i, calID, "standup", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))

	maintSrv := do.MustInvoke[*MaintenanceSrv](i)
	assert.NoErr(t, maintSrv.MaintainDatabase(ctx))
}
