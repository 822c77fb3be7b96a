package command

//
// commands_test.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"
	"testing"

	"gitlab.com/kabes/go-calsub/internal/assert"
	"gitlab.com/kabes/go-calsub/internal/common"
)

func TestValidateEmptyOwner(t *testing.T) {
	cmds := []interface{ Validate() error }{
		&CreateSubscriptionCmd{},
		&RevokeSubscriptionCmd{},
		&NewCalendarCmd{Name: "cal"},
	}

	for _, cmd := range cmds {
		assert.True(t, errors.Is(cmd.Validate(), common.ErrEmptyOwner))
	}
}
