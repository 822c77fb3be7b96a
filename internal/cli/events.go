//
// events.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package cli

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-calsub/internal/command"
	"gitlab.com/kabes/go-calsub/internal/service"
)

func newAddEventCmd() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "add new event to calendar",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "calendar", Required: true, Aliases: []string{"c"}},
			&cli.StringFlag{Name: "title", Required: true, Aliases: []string{"t"}},
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}},
			&cli.BoolFlag{Name: "all-day"},
			&cli.TimestampFlag{
				Name:     "starts-at",
				Required: true,
				Usage:    "event start (RFC3339)",
				Config:   cli.TimestampConfig{Layouts: []string{"2006-01-02T15:04:05Z07:00", "2006-01-02"}},
			},
			&cli.TimestampFlag{
				Name:   "ends-at",
				Usage:  "event end (RFC3339); default start",
				Config: cli.TimestampConfig{Layouts: []string{"2006-01-02T15:04:05Z07:00", "2006-01-02"}},
			},
		},
		Action: wrap(addEventCmd),
	}
}

//nolint:forbidigo
func addEventCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	eventsSrv := do.MustInvoke[*service.EventsSrv](injector)

	// OwnerID left empty; the operator may fill any calendar
	res, err := eventsSrv.CreateEvent(ctx, &command.NewEventCmd{
		CalendarID:  clicmd.String("calendar"),
		Title:       clicmd.String("title"),
		Location:    clicmd.String("location"),
		Description: clicmd.String("description"),
		AllDay:      clicmd.Bool("all-day"),
		StartsAt:    clicmd.Timestamp("starts-at"),
		EndsAt:      clicmd.Timestamp("ends-at"),
	})
	if err != nil {
		return fmt.Errorf("create event error: %w", err)
	}

	fmt.Printf("Event created: %s\n", res.EventID)

	return nil
}
