//
// calendars.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package model

import (
	"time"
)

type Calendar struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	CreatedAt   time.Time
}
