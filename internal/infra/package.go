package infra

//
// package.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/config"
	"gitlab.com/kabes/go-calsub/internal/db"
	"gitlab.com/kabes/go-calsub/internal/infra/pg"
	"gitlab.com/kabes/go-calsub/internal/infra/sqlite"
	"gitlab.com/kabes/go-calsub/internal/repository"
)

// repo return repository implementation according to configured driver.
// DBConfig is validated on load so driver is always one of known values.
func repo(i do.Injector) any {
	dbconf := do.MustInvoke[config.DBConfig](i)
	if dbconf.Driver == "postgres" {
		return &pg.Repository{}
	}

	return &sqlite.Repository{}
}

var Package = do.Package(
	do.Lazy(func(i do.Injector) (db.Database, error) {
		dbconf := do.MustInvoke[config.DBConfig](i)
		if dbconf.Driver == "postgres" {
			d, err := pg.NewDatabaseI(i)

			return d, err
		}

		d, err := sqlite.NewDatabaseI(i)

		return d, err
	}),
	do.Lazy(func(i do.Injector) (repository.Subscriptions, error) {
		return repo(i).(repository.Subscriptions), nil //nolint:forcetypeassert
	}),
	do.Lazy(func(i do.Injector) (repository.Calendars, error) {
		return repo(i).(repository.Calendars), nil //nolint:forcetypeassert
	}),
	do.Lazy(func(i do.Injector) (repository.Events, error) {
		return repo(i).(repository.Events), nil //nolint:forcetypeassert
	}),
	do.Lazy(func(i do.Injector) (repository.Maintenance, error) {
		return repo(i).(repository.Maintenance), nil //nolint:forcetypeassert
	}),
)
