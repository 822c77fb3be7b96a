package feed

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

	"gitlab.com/kabes/go-calsub/internal/assert"
	"gitlab.com/kabes/go-calsub/internal/model"
)

func testEvents() []model.Event {
	updated := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	return []model.Event{
		{
			ID: "e2", CalendarID: "c1", Title: "Second",
			StartsAt:  time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC),
			EndsAt:    time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC),
			UpdatedAt: updated,
		},
		{
			ID: "e1", CalendarID: "c1", Title: "First", Location: "room 1",
			Description: "with details",
			StartsAt:    time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
			EndsAt:      time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
			UpdatedAt:   updated,
		},
		{
			ID: "e3", CalendarID: "c1", Title: "Holiday", AllDay: true,
			StartsAt:  time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
			EndsAt:    time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC),
			UpdatedAt: updated,
		},
	}
}

func TestRender(t *testing.T) {
	r := NewRenderer("cal.example.com")
	res := r.Render("Team", testEvents())

	assert.True(t, strings.HasPrefix(res, "BEGIN:VCALENDAR"))
	assert.True(t, strings.Contains(res, "METHOD:PUBLISH"))
	assert.True(t, strings.Contains(res, "CALSCALE:GREGORIAN"))
	assert.True(t, strings.Contains(res, "X-WR-CALNAME:Team"))
	assert.True(t, strings.Contains(res, "X-WR-TIMEZONE:UTC"))
	assert.True(t, strings.Contains(res, "UID:event-e1@cal.example.com"))
	assert.True(t, strings.Contains(res, "SUMMARY:First"))
	assert.True(t, strings.Contains(res, "LOCATION:room 1"))
	assert.True(t, strings.Contains(res, "DESCRIPTION:with details"))
	assert.True(t, strings.Contains(res, "DTSTAMP:20260501T100000Z"))
}

func TestRenderOrder(t *testing.T) {
	r := NewRenderer("cal.example.com")
	res := r.Render("Team", testEvents())

	// events sorted by start time regardless of input order
	first := strings.Index(res, "UID:event-e1@")
	second := strings.Index(res, "UID:event-e2@")
	third := strings.Index(res, "UID:event-e3@")
	assert.True(t, first >= 0 && first < second)
	assert.True(t, second < third)
}

func TestRenderAllDay(t *testing.T) {
	r := NewRenderer("cal.example.com")
	res := r.Render("Team", testEvents())

	assert.True(t, strings.Contains(res, "DTSTART;VALUE=DATE:20260605"))
	assert.True(t, strings.Contains(res, "DTEND;VALUE=DATE:20260606"))
}

func TestRenderDeterministic(t *testing.T) {
	r := NewRenderer("cal.example.com")

	events := testEvents()
	res1 := r.Render("Team", events)
	res2 := r.Render("Team", events)
	assert.Equal(t, res1, res2)
}

func TestRenderEmpty(t *testing.T) {
	r := NewRenderer("cal.example.com")
	res := r.Render("All My Events", nil)

	assert.True(t, strings.HasPrefix(res, "BEGIN:VCALENDAR"))
	assert.True(t, strings.Contains(res, "X-WR-CALNAME:All My Events"))
	assert.True(t, !strings.Contains(res, "BEGIN:VEVENT"))
}
