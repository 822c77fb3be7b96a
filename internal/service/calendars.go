package service

//
// calendars.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/aerr"
	"gitlab.com/kabes/go-calsub/internal/command"
	"gitlab.com/kabes/go-calsub/internal/common"
	"gitlab.com/kabes/go-calsub/internal/db"
	"gitlab.com/kabes/go-calsub/internal/model"
	"gitlab.com/kabes/go-calsub/internal/query"
	"gitlab.com/kabes/go-calsub/internal/repository"
)

type CalendarsSrv struct {
	db      db.Database
	calRepo repository.Calendars
}

func NewCalendarsSrv(i do.Injector) (*CalendarsSrv, error) {
	return &CalendarsSrv{
		db:      do.MustInvoke[db.Database](i),
		calRepo: do.MustInvoke[repository.Calendars](i),
	}, nil
}

func (s *CalendarsSrv) CreateCalendar(ctx context.Context, cmd *command.NewCalendarCmd,
) (command.NewCalendarCmdResult, error) {
	if err := cmd.Validate(); err != nil {
		return command.NewCalendarCmdResult{}, err //nolint:wrapcheck
	}

	cal := model.Calendar{
		ID:          xid.New().String(),
		OwnerID:     cmd.OwnerID,
		Name:        cmd.Name,
		Description: cmd.Description,
		CreatedAt:   time.Now().UTC(),
	}

	err := db.InTransaction(ctx, s.db, func(ctx context.Context) error {
		if err := s.calRepo.SaveCalendar(ctx, &cal); err != nil {
			return aerr.ApplyFor(ErrRepositoryError, err)
		}

		return nil
	})
	if err != nil {
		return command.NewCalendarCmdResult{}, err //nolint:wrapcheck
	}

	log.Ctx(ctx).Info().Str(common.LogKeyCalendarID, cal.ID).
		Str(common.LogKeyOwnerID, cal.OwnerID).Msg("calendar created")

	return command.NewCalendarCmdResult{CalendarID: cal.ID}, nil
}

func (s *CalendarsSrv) ListCalendars(ctx context.Context, q *query.ListCalendarsQuery,
) ([]model.Calendar, error) {
	if err := q.Validate(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	//nolint:wrapcheck
	return db.InConnectionR(ctx, s.db, func(ctx context.Context) ([]model.Calendar, error) {
		cals, err := s.calRepo.ListCalendars(ctx, q.OwnerID)
		if err != nil {
			return nil, aerr.ApplyFor(ErrRepositoryError, err)
		}

		return cals, nil
	})
}
