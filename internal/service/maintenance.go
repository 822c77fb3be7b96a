package service

//
// maintenance.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/aerr"
	"gitlab.com/kabes/go-calsub/internal/db"
	"gitlab.com/kabes/go-calsub/internal/repository"
)

type MaintenanceSrv struct {
	db        db.Database
	maintRepo repository.Maintenance
}

func NewMaintenanceSrv(i do.Injector) (*MaintenanceSrv, error) {
	return &MaintenanceSrv{
		db:        do.MustInvoke[db.Database](i),
		maintRepo: do.MustInvoke[repository.Maintenance](i),
	}, nil
}

func (m *MaintenanceSrv) MaintainDatabase(ctx context.Context) error {
	err := db.InConnection(ctx, m.db, func(ctx context.Context) error {
		return m.maintRepo.Maintenance(ctx)
	})
	if err != nil {
		return aerr.ApplyFor(ErrRepositoryError, err)
	}

	return nil
}
