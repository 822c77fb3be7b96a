package cli

//
// main.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"gitlab.com/kabes/go-calsub/internal/aerr"
	"gitlab.com/kabes/go-calsub/internal/config"
)

//nolint:forbidigo
func Main() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "print-version",
		Aliases: []string{"V"},
		Usage:   "Print version.",
	}

	cli := &cli.Command{
		Name:    "go-calsub",
		Version: config.VersionString,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db.driver",
				Value:   "sqlite3",
				Usage:   "Database driver (sqlite3, postgres)",
				Sources: cli.EnvVars("GOCALSUB_DB_DRIVER"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:      "db.connstr",
				Value:     "database.sqlite?_fk=1&_journal_mode=WAL&_synchronous=NORMAL",
				Usage:     "Database connection string",
				Aliases:   []string{"D"},
				Sources:   cli.EnvVars("GOCALSUB_DB"),
				Validator: dbConnstrValidator,
				Config:    cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "log.level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("GOCALSUB_LOGLEVEL"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "log.format",
				Value:   "console",
				Usage:   "Log format (console, logfmt, json, journald, syslog)",
				Sources: cli.EnvVars("GOCALSUB_LOGFORMAT"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{Name: "debug", Usage: "Debug flags", Sources: cli.EnvVars("GOCALSUB_DEBUG")},
		},
		Commands: []*cli.Command{
			newStartServerCmd(),
			databaseSubCmd(),
			calendarSubCmd(),
			eventSubCmd(),
			subscriptionSubCmd(),
		},
	}

	if err := cli.Run(context.Background(), os.Args); err != nil {
		if h := aerr.GetUserMessage(err); h != "" {
			fmt.Printf("Error: %s\n", h)
		} else {
			fmt.Printf("Error: %s\n", err.Error())
		}

		if cli.String("log.level") == "debug" {
			fmt.Printf("Error: %#+v\n", err)
		}
	}
}

func databaseSubCmd() *cli.Command {
	return &cli.Command{
		Name:  "database",
		Usage: "manage database",
		Commands: []*cli.Command{
			newMigrateCmd(),
			newMaintenanceCmd(),
		},
	}
}

func calendarSubCmd() *cli.Command {
	return &cli.Command{
		Name:  "calendar",
		Usage: "manage calendars",
		Commands: []*cli.Command{
			newAddCalendarCmd(),
			newListCalendarsCmd(),
		},
	}
}

func eventSubCmd() *cli.Command {
	return &cli.Command{
		Name:  "event",
		Usage: "manage events",
		Commands: []*cli.Command{
			newAddEventCmd(),
		},
	}
}

func subscriptionSubCmd() *cli.Command {
	return &cli.Command{
		Name:  "subscription",
		Usage: "manage subscriptions",
		Commands: []*cli.Command{
			newListSubscriptionsCmd(),
			newRevokeSubscriptionCmd(),
		},
	}
}

//---------------------------------------------------------------------

func dbConnstrValidator(connstr string) error {
	if connstr == "" {
		return aerr.New("database connection string cannot be empty")
	}

	return nil
}
