package sqlite

//
// sqlite_events.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-calsub/internal/aerr"
	"gitlab.com/kabes/go-calsub/internal/db"
	"gitlab.com/kabes/go-calsub/internal/model"
)

const eventColumns = "id, calendar_id, title, location, description, all_day, starts_at, ends_at, updated_at"

func (Repository) ListCalendarEvents(ctx context.Context, calendarID string) ([]model.Event, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Str("calendar_id", calendarID).Msg("list calendar events")

	dbctx := db.MustCtx(ctx)

	events := []EventDB{}
	err := dbctx.SelectContext(ctx, &events,
		"SELECT "+eventColumns+" FROM events WHERE calendar_id=? ORDER BY starts_at, id",
		calendarID)
	if err != nil {
		return nil, aerr.Wrapf(err, "select events failed").WithMeta("calendar_id", calendarID)
	}

	return eventsFromDb(events), nil
}

func (Repository) ListOwnerEvents(ctx context.Context, ownerID string) ([]model.Event, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Str("owner_id", ownerID).Msg("list owner events")

	dbctx := db.MustCtx(ctx)

	events := []EventDB{}
	err := dbctx.SelectContext(ctx, &events, `
			SELECT e.id, e.calendar_id, e.title, e.location, e.description, e.all_day,
				e.starts_at, e.ends_at, e.updated_at
			FROM events e
			JOIN calendars c ON c.id = e.calendar_id
			WHERE c.owner_id=?
			ORDER BY e.starts_at, e.id`,
		ownerID)
	if err != nil {
		return nil, aerr.Wrapf(err, "select owner events failed").WithMeta("owner_id", ownerID)
	}

	return eventsFromDb(events), nil
}

func (Repository) SaveEvent(ctx context.Context, event *model.Event) error {
	logger := log.Ctx(ctx)
	logger.Debug().Str("event_id", event.ID).Str("calendar_id", event.CalendarID).Msg("insert event")

	dbctx := db.MustCtx(ctx)

	_, err := dbctx.ExecContext(ctx,
		"INSERT INTO events (id, calendar_id, title, location, description, all_day, starts_at, ends_at, updated_at) "+
			"VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		event.ID, event.CalendarID, event.Title, event.Location, event.Description,
		event.AllDay, event.StartsAt, event.EndsAt, event.UpdatedAt)
	if err != nil {
		return aerr.Wrapf(err, "insert event failed").WithMeta("event_id", event.ID)
	}

	return nil
}
