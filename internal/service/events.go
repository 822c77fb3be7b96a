package service

//
// events.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"errors"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/aerr"
	"gitlab.com/kabes/go-calsub/internal/command"
	"gitlab.com/kabes/go-calsub/internal/common"
	"gitlab.com/kabes/go-calsub/internal/db"
	"gitlab.com/kabes/go-calsub/internal/model"
	"gitlab.com/kabes/go-calsub/internal/repository"
)

type EventsSrv struct {
	db         db.Database
	calRepo    repository.Calendars
	eventsRepo repository.Events
}

func NewEventsSrv(i do.Injector) (*EventsSrv, error) {
	return &EventsSrv{
		db:         do.MustInvoke[db.Database](i),
		calRepo:    do.MustInvoke[repository.Calendars](i),
		eventsRepo: do.MustInvoke[repository.Events](i),
	}, nil
}

func (s *EventsSrv) CreateEvent(ctx context.Context, cmd *command.NewEventCmd,
) (command.NewEventCmdResult, error) {
	if err := cmd.Validate(); err != nil {
		return command.NewEventCmdResult{}, err //nolint:wrapcheck
	}

	now := time.Now().UTC()
	ends := cmd.EndsAt

	if ends.IsZero() {
		ends = cmd.StartsAt
	}

	event := model.Event{
		ID:          xid.New().String(),
		CalendarID:  cmd.CalendarID,
		Title:       cmd.Title,
		Location:    cmd.Location,
		Description: cmd.Description,
		AllDay:      cmd.AllDay,
		StartsAt:    cmd.StartsAt,
		EndsAt:      ends,
		UpdatedAt:   now,
	}

	err := db.InTransaction(ctx, s.db, func(ctx context.Context) error {
		cal, err := s.calRepo.GetCalendar(ctx, cmd.CalendarID)
		if errors.Is(err, common.ErrNoData) {
			return common.ErrUnknownCalendar
		} else if err != nil {
			return aerr.ApplyFor(ErrRepositoryError, err)
		}

		// foreign calendars must look like missing ones
		if cmd.OwnerID != "" && cal.OwnerID != cmd.OwnerID {
			return common.ErrUnknownCalendar
		}

		if err := s.eventsRepo.SaveEvent(ctx, &event); err != nil {
			return aerr.ApplyFor(ErrRepositoryError, err)
		}

		return nil
	})
	if err != nil {
		return command.NewEventCmdResult{}, err //nolint:wrapcheck
	}

	log.Ctx(ctx).Info().Str(common.LogKeyCalendarID, event.CalendarID).
		Msg("event created")

	return command.NewEventCmdResult{EventID: event.ID}, nil
}

func (s *EventsSrv) ListCalendarEvents(ctx context.Context, calendarID string) ([]model.Event, error) {
	//nolint:wrapcheck
	return db.InConnectionR(ctx, s.db, func(ctx context.Context) ([]model.Event, error) {
		events, err := s.eventsRepo.ListCalendarEvents(ctx, calendarID)
		if err != nil {
			return nil, aerr.ApplyFor(ErrRepositoryError, err)
		}

		return events, nil
	})
}
