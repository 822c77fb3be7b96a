// Package feed render calendar events into the iCalendar format.
package feed

//
// feed.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"slices"

	ics "github.com/arran4/golang-ical"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/config"
	"gitlab.com/kabes/go-calsub/internal/model"
)

const prodID = "-//kabes//go-calsub//EN"

// Renderer build iCalendar documents. Output is deterministic for the
// same input: events are ordered by start time and id, and DTSTAMP is
// taken from the event update time instead of the clock.
type Renderer struct {
	domain string
}

func NewRenderer(domain string) *Renderer {
	return &Renderer{domain: domain}
}

func NewRendererI(i do.Injector) (*Renderer, error) {
	conf := do.MustInvoke[config.FeedConf](i)

	return NewRenderer(conf.Domain), nil
}

// Render serialize events into a VCALENDAR with given display name.
func (r *Renderer) Render(displayName string, events []model.Event) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(prodID)
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName(displayName)
	cal.SetXWRTimezone("UTC")

	events = slices.Clone(events)
	slices.SortFunc(events, model.Event.Compare)

	for _, event := range events {
		vevent := cal.AddEvent("event-" + event.ID + "@" + r.domain)
		vevent.SetDtStampTime(event.UpdatedAt.UTC())
		vevent.SetModifiedAt(event.UpdatedAt.UTC())
		vevent.SetSummary(event.Title)

		if event.Location != "" {
			vevent.SetLocation(event.Location)
		}

		if event.Description != "" {
			vevent.SetDescription(event.Description)
		}

		if event.AllDay {
			vevent.SetAllDayStartAt(event.StartsAt.UTC())
			vevent.SetAllDayEndAt(event.EndsAt.UTC())
		} else {
			vevent.SetStartAt(event.StartsAt.UTC())
			vevent.SetEndAt(event.EndsAt.UTC())
		}
	}

	return cal.Serialize()
}
