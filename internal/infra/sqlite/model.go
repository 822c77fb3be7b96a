package sqlite

// model.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.

import (
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/kabes/go-calsub/internal/common"
	"gitlab.com/kabes/go-calsub/internal/model"
)

var ErrNoData = common.ErrNoData

//----------------------------------------

type SubscriptionDB struct {
	ID         string     `db:"id"`
	OwnerID    string     `db:"owner_id"`
	CalendarID *string    `db:"calendar_id"`
	Token      string     `db:"token"`
	Status     string     `db:"status"`
	CreatedAt  time.Time  `db:"created_at"`
	LastUsedAt *time.Time `db:"last_used_at"`
}

func (s *SubscriptionDB) ToModel() *model.Subscription {
	return &model.Subscription{
		ID:         s.ID,
		OwnerID:    s.OwnerID,
		CalendarID: s.CalendarID,
		Token:      s.Token,
		Status:     model.SubscriptionStatus(s.Status),
		CreatedAt:  s.CreatedAt,
		LastUsedAt: s.LastUsedAt,
	}
}

func (s *SubscriptionDB) MarshalZerologObject(event *zerolog.Event) {
	// never log tokens
	event.Str("id", s.ID).
		Str("owner_id", s.OwnerID).
		Any("calendar_id", s.CalendarID).
		Str("status", s.Status).
		Time("created_at", s.CreatedAt).
		Any("last_used_at", s.LastUsedAt)
}

func subscriptionsFromDb(subs []SubscriptionDB) []model.Subscription {
	res := make([]model.Subscription, len(subs))
	for i, r := range subs {
		res[i] = *r.ToModel()
	}

	return res
}

//------------------------------------------------------------------------------

type CalendarDB struct {
	ID          string    `db:"id"`
	OwnerID     string    `db:"owner_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

func (c *CalendarDB) ToModel() *model.Calendar {
	return &model.Calendar{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func (c *CalendarDB) MarshalZerologObject(event *zerolog.Event) {
	event.Str("id", c.ID).
		Str("owner_id", c.OwnerID).
		Str("name", c.Name).
		Time("created_at", c.CreatedAt)
}

func calendarsFromDb(cals []CalendarDB) []model.Calendar {
	res := make([]model.Calendar, len(cals))
	for i, r := range cals {
		res[i] = *r.ToModel()
	}

	return res
}

//------------------------------------------------------------------------------

type EventDB struct {
	ID          string    `db:"id"`
	CalendarID  string    `db:"calendar_id"`
	Title       string    `db:"title"`
	Location    string    `db:"location"`
	Description string    `db:"description"`
	AllDay      bool      `db:"all_day"`
	StartsAt    time.Time `db:"starts_at"`
	EndsAt      time.Time `db:"ends_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (e *EventDB) ToModel() model.Event {
	return model.Event{
		ID:          e.ID,
		CalendarID:  e.CalendarID,
		Title:       e.Title,
		Location:    e.Location,
		Description: e.Description,
		AllDay:      e.AllDay,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func eventsFromDb(events []EventDB) []model.Event {
	res := make([]model.Event, len(events))
	for i, r := range events {
		res[i] = r.ToModel()
	}

	return res
}
