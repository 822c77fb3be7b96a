package service

//
// testhelpers_test.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	stdlog "log"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/command"
	"gitlab.com/kabes/go-calsub/internal/config"
	"gitlab.com/kabes/go-calsub/internal/db"
	"gitlab.com/kabes/go-calsub/internal/feed"
	"gitlab.com/kabes/go-calsub/internal/infra"
	"gitlab.com/kabes/go-calsub/internal/model"
)

func prepareTests(t *testing.T) (context.Context, *do.RootScope) {
	t.Helper()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout}).With().Caller().Stack().Logger()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)

	ctx := log.Logger.WithContext(context.Background())

	i := do.New(Package, infra.Package)
	do.ProvideValue(i, config.NewDBConfig("sqlite3", ":memory:"))
	do.ProvideValue(i, config.NewFeedConf("cal.example.com", time.Minute, time.Hour, 3))
	do.Provide(i, feed.NewRendererI)

	database := do.MustInvoke[db.Database](i)
	if _, err := database.Open(ctx); err != nil {
		t.Fatalf("open db error: %#+v", err)
	}

	if err := database.Migrate(ctx); err != nil {
		t.Fatalf("prepare db error: %#+v", err)
	}

	return ctx, i
}

func prepareTestCalendar(ctx context.Context, t *testing.T, i do.Injector,
	owner, name string,
) string {
	t.Helper()

	calsSrv := do.MustInvoke[*CalendarsSrv](i)
	res, err := calsSrv.CreateCalendar(ctx, &command.NewCalendarCmd{
		OwnerID: owner,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("create test calendar failed: %#+v", err)
	}

	return res.CalendarID
}

func prepareTestEvent(ctx context.Context, t *testing.T, i do.Injector,
	calendarID, title string, startsAt time.Time,
) string {
	t.Helper()

	eventsSrv := do.MustInvoke[*EventsSrv](i)
	res, err := eventsSrv.CreateEvent(ctx, &command.NewEventCmd{
		CalendarID: calendarID,
		Title:      title,
		StartsAt:   startsAt,
		EndsAt:     startsAt.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create test event failed: %#+v", err)
	}

	return res.EventID
}

func prepareTestSubscription(ctx context.Context, t *testing.T, i do.Injector,
	owner string, calendarID *string,
) *model.SubscriptionInfo {
	t.Helper()

	subsSrv := do.MustInvoke[*SubscriptionsSrv](i)
	sub, err := subsSrv.CreateSubscription(ctx, &command.CreateSubscriptionCmd{
		OwnerID:    owner,
		CalendarID: calendarID,
	})
	if err != nil {
		t.Fatalf("create test subscription failed: %#+v", err)
	}

	return sub
}
