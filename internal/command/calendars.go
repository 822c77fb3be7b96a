// calendars.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
package command

import (
	"gitlab.com/kabes/go-calsub/internal/aerr"
	"gitlab.com/kabes/go-calsub/internal/common"
)

//---------------------------------------------------------------------

// NewCalendarCmd define new calendar to add.
type NewCalendarCmd struct {
	OwnerID     string
	Name        string
	Description string
}

func (n *NewCalendarCmd) Validate() error {
	if n.OwnerID == "" {
		return common.ErrEmptyOwner
	}

	if n.Name == "" {
		return aerr.ErrValidation.WithUserMsg("calendar name can't be empty")
	}

	return nil
}

type NewCalendarCmdResult struct {
	CalendarID string
}
