package command

//
// subscriptions.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"gitlab.com/kabes/go-calsub/internal/aerr"
	"gitlab.com/kabes/go-calsub/internal/common"
	"gitlab.com/kabes/go-calsub/internal/validators"
)

// CreateSubscriptionCmd mint a new feed token for the owner.
// CalendarID nil means subscribe to all owner's events.
type CreateSubscriptionCmd struct {
	OwnerID    string
	CalendarID *string
}

func (c *CreateSubscriptionCmd) Validate() error {
	if c.OwnerID == "" {
		return common.ErrEmptyOwner
	}

	if !validators.IsValidOwnerID(c.OwnerID) {
		return aerr.ErrValidation.WithUserMsg("invalid owner id")
	}

	if c.CalendarID != nil && !validators.IsValidID(*c.CalendarID) {
		return aerr.ErrValidation.WithUserMsg("invalid calendar id")
	}

	return nil
}

//---------------------------------------------------------------------

type RevokeSubscriptionCmd struct {
	OwnerID        string
	SubscriptionID string
}

func (c *RevokeSubscriptionCmd) Validate() error {
	if c.OwnerID == "" {
		return common.ErrEmptyOwner
	}

	if !validators.IsValidID(c.SubscriptionID) {
		return aerr.ErrValidation.WithUserMsg("invalid subscription id")
	}

	return nil
}

// RevokeSubscriptionCmdResult report whether the command changed anything;
// revoking an already-revoked subscription is a no-op, not an error.
type RevokeSubscriptionCmdResult struct {
	AlreadyRevoked bool
}
