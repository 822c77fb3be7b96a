package common

//
// Common application errors
//
// errors.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"

	"gitlab.com/kabes/go-calsub/internal/aerr"
)

var ErrUnauthorized = aerr.New("unauthorized").WithUserMsg("authorization failed")

// Token resolution errors; unknown and revoked are distinct on purpose -
// a revoked token must never look like a never-issued one.
var (
	ErrUnknownToken = aerr.New("unknown token").WithUserMsg("unknown feed address")
	ErrRevokedToken = aerr.New("revoked token").WithUserMsg("feed address was revoked")
)

// Validation errors.
var (
	ErrUnknownCalendar     = aerr.New("unknown calendar").WithTag(aerr.ValidationError)
	ErrUnknownSubscription = aerr.New("unknown subscription").WithTag(aerr.ValidationError)
	ErrUnknownEvent        = aerr.New("unknown event").WithTag(aerr.ValidationError)
	ErrEmptyOwner          = aerr.New("owner can't be empty").WithTag(aerr.ValidationError)
	ErrInvalidCalendar     = aerr.New("invalid calendar").WithTag(aerr.ValidationError)
	ErrInvalidEvent        = aerr.New("invalid event").WithTag(aerr.ValidationError)
)

var ErrNoData = errors.New("no result")
