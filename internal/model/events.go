//
// events.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package model

import (
	"time"
)

// Event is one occurrence from the event source; recurring events
// arrive pre-expanded, one row per occurrence.
type Event struct {
	ID          string
	CalendarID  string
	Title       string
	Location    string
	Description string
	AllDay      bool
	StartsAt    time.Time
	EndsAt      time.Time
	UpdatedAt   time.Time
}

// Compare orders events by start time, then id. Used for deterministic
// feed output.
func (e Event) Compare(o Event) int {
	if c := e.StartsAt.Compare(o.StartsAt); c != 0 {
		return c
	}

	switch {
	case e.ID < o.ID:
		return -1
	case e.ID > o.ID:
		return 1
	default:
		return 0
	}
}
