package sqlite

//
// sqlite_calendars.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-calsub/internal/aerr"
	"gitlab.com/kabes/go-calsub/internal/db"
	"gitlab.com/kabes/go-calsub/internal/model"
)

func (Repository) GetCalendar(ctx context.Context, calendarID string) (*model.Calendar, error) {
	dbctx := db.MustCtx(ctx)

	cal := CalendarDB{}
	err := dbctx.GetContext(ctx, &cal,
		"SELECT id, owner_id, name, description, created_at FROM calendars WHERE id=?",
		calendarID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoData
	} else if err != nil {
		return nil, aerr.Wrapf(err, "select calendar failed").WithMeta("calendar_id", calendarID)
	}

	return cal.ToModel(), nil
}

func (Repository) ListCalendars(ctx context.Context, ownerID string) ([]model.Calendar, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Str("owner_id", ownerID).Msg("list calendars")

	dbctx := db.MustCtx(ctx)

	cals := []CalendarDB{}
	err := dbctx.SelectContext(ctx, &cals,
		"SELECT id, owner_id, name, description, created_at FROM calendars WHERE owner_id=? ORDER BY name, id",
		ownerID)
	if err != nil {
		return nil, aerr.Wrapf(err, "select calendars failed").WithMeta("owner_id", ownerID)
	}

	return calendarsFromDb(cals), nil
}

func (Repository) SaveCalendar(ctx context.Context, cal *model.Calendar) error {
	logger := log.Ctx(ctx)
	logger.Debug().Str("calendar_id", cal.ID).Str("owner_id", cal.OwnerID).Msg("insert calendar")

	dbctx := db.MustCtx(ctx)

	_, err := dbctx.ExecContext(ctx,
		"INSERT INTO calendars (id, owner_id, name, description, created_at) VALUES(?, ?, ?, ?, ?)",
		cal.ID, cal.OwnerID, cal.Name, cal.Description, cal.CreatedAt)
	if err != nil {
		return aerr.Wrapf(err, "insert calendar failed").WithMeta("calendar_id", cal.ID)
	}

	return nil
}
