package sqlite

//
// sqlite_maint.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"embed"

	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-calsub/internal/aerr"
	"gitlab.com/kabes/go-calsub/internal/db"
)

//go:embed "migrations/*.sql"
var embedMigrations embed.FS

// Maintenance run periodic housekeeping. Subscriptions are never
// deleted, so only storage upkeep is done here.
func (Repository) Maintenance(ctx context.Context) error {
	logger := log.Ctx(ctx)
	dbi := db.MustCtx(ctx)

	for idx, sql := range maintScripts {
		logger.Debug().Msgf("run maintenance script[%d]: %q", idx, sql)

		_, err := dbi.ExecContext(ctx, sql)
		if err != nil {
			return aerr.ApplyFor(aerr.ErrDatabase, err, "execute maintenance script failed").
				WithMeta("sql", sql)
		}
	}

	// print some stats
	var numSubs, numActive, numEvents int
	if err := dbi.GetContext(ctx, &numSubs, "SELECT count(*) FROM subscriptions"); err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "execute maintenance - count subscriptions failed")
	}

	if err := dbi.GetContext(ctx, &numActive,
		"SELECT count(*) FROM subscriptions WHERE status='active'"); err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "execute maintenance - count active subscriptions failed")
	}

	if err := dbi.GetContext(ctx, &numEvents, "SELECT count(*) FROM events"); err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "execute maintenance - count events failed")
	}

	logger.Info().Msgf("database maintenance finished; subscriptions: %d (active: %d); events: %d",
		numSubs, numActive, numEvents)

	return nil
}

//------------------------------------------------------------------------------

//nolint:gochecknoglobals
var maintScripts = []string{
	`VACUUM;`,
	`ANALYZE;`,
	`PRAGMA optimize;`,
}

//------------------------------------------------------------------------------
