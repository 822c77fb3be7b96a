//
// calendars.go
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
	"gitlab.com/kabes/go-calsub/internal/query"
	"gitlab.com/kabes/go-calsub/internal/service"
)

func newAddCalendarCmd() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "add new calendar",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Required: true, Aliases: []string{"u"}},
			&cli.StringFlag{Name: "name", Required: true, Aliases: []string{"n"}},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}},
		},
		Action: wrap(addCalendarCmd),
	}
}

//nolint:forbidigo
func addCalendarCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	calsSrv := do.MustInvoke[*service.CalendarsSrv](injector)

	res, err := calsSrv.CreateCalendar(ctx, &command.NewCalendarCmd{
		OwnerID:     clicmd.String("owner"),
		Name:        clicmd.String("name"),
		Description: clicmd.String("description"),
	})
	if err != nil {
		return fmt.Errorf("create calendar error: %w", err)
	}

	fmt.Printf("Calendar created: %s\n", res.CalendarID)

	return nil
}

//---------------------------------------------------------------------

func newListCalendarsCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list owner calendars",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Required: true, Aliases: []string{"u"}},
		},
		Action: wrap(listCalendarsCmd),
	}
}

//nolint:forbidigo
func listCalendarsCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	calsSrv := do.MustInvoke[*service.CalendarsSrv](injector)

	cals, err := calsSrv.ListCalendars(ctx, &query.ListCalendarsQuery{OwnerID: clicmd.String("owner")})
	if err != nil {
		return fmt.Errorf("get calendar list error: %w", err)
	}

	fmt.Printf("%-20s | %-30s | %s \n", "ID", "Name", "Description")
	fmt.Println("----------------------------------------------------------------------")

	for _, c := range cals {
		fmt.Printf("%-20s | %-30s | %s \n", c.ID, c.Name, c.Description)
	}

	fmt.Printf("\nTotal: %d\n", len(cals))

	return nil
}
