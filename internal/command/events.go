// events.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
package command

import (
	"time"

	"gitlab.com/kabes/go-calsub/internal/aerr"
	"gitlab.com/kabes/go-calsub/internal/validators"
)

//---------------------------------------------------------------------

// NewEventCmd define new event occurrence to add. OwnerID empty means
// trusted caller (cli); otherwise the calendar must belong to the owner.
type NewEventCmd struct {
	OwnerID     string
	CalendarID  string
	Title       string
	Location    string
	Description string
	AllDay      bool
	StartsAt    time.Time
	EndsAt      time.Time
}

func (n *NewEventCmd) Validate() error {
	if !validators.IsValidID(n.CalendarID) {
		return aerr.ErrValidation.WithUserMsg("invalid calendar id")
	}

	if n.Title == "" {
		return aerr.ErrValidation.WithUserMsg("event title can't be empty")
	}

	if n.StartsAt.IsZero() {
		return aerr.ErrValidation.WithUserMsg("event start can't be empty")
	}

	if !n.EndsAt.IsZero() && n.EndsAt.Before(n.StartsAt) {
		return aerr.ErrValidation.WithUserMsg("event can't end before it starts")
	}

	return nil
}

type NewEventCmdResult struct {
	EventID string
}
