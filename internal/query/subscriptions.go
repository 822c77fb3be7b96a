package query

//
// subscriptions.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"github.com/rs/zerolog"
	"gitlab.com/kabes/go-calsub/internal/common"
	"gitlab.com/kabes/go-calsub/internal/validators"
)

// ListSubscriptionsQuery select all owner's subscriptions, every status,
// oldest first.
type ListSubscriptionsQuery struct {
	OwnerID string
}

func (q *ListSubscriptionsQuery) Validate() error {
	if !validators.IsValidOwnerID(q.OwnerID) {
		return common.ErrEmptyOwner.WithUserMsg("invalid owner id")
	}

	return nil
}

func (q *ListSubscriptionsQuery) MarshalZerologObject(event *zerolog.Event) {
	event.Str("owner_id", q.OwnerID)
}
