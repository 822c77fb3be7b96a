// Package db provide database-backend plumbing: the backend handle
// interface, connection-in-context passing and generic runners.
package db

//
// mod.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"gitlab.com/kabes/go-calsub/internal/aerr"
)

// Database is one storage backend (sqlite or postgres). Wired via
// samber/do; Shutdown is called by the injector.
type Database interface {
	Open(ctx context.Context) (*sqlx.DB, error)
	Shutdown(ctx context.Context) error
	GetDB() *sql.DB
	GetConnection(ctx context.Context) (*sqlx.Conn, error)
	CloseConnection(ctx context.Context, conn *sqlx.Conn) error
	Migrate(ctx context.Context) error
	Clear(ctx context.Context) error
	HealthCheck(ctx context.Context) error
}

//------------------------------------------------------------------------------

// InConnectionR run `fun` with an open connection placed in the context.
// Return `fun` result and error.
func InConnectionR[T any](ctx context.Context, d Database,
	fun func(ctx context.Context) (T, error),
) (T, error) {
	defer observeQueryDuration()()

	conn, err := d.GetConnection(ctx)
	if err != nil {
		return *new(T), err
	}

	defer d.CloseConnection(ctx, conn) //nolint:errcheck

	return fun(WithCtx(ctx, conn))
}

// InConnection run `fun` with an open connection placed in the context.
func InConnection(ctx context.Context, d Database, fun func(ctx context.Context) error) error {
	_, err := InConnectionR(ctx, d, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fun(ctx)
	})

	return err
}

// InTransactionR run `fun` in db transaction; return `fun` result and error.
func InTransactionR[T any](ctx context.Context, d Database,
	fun func(ctx context.Context) (T, error),
) (T, error) {
	defer observeQueryDuration()()

	conn, err := d.GetConnection(ctx)
	if err != nil {
		return *new(T), err
	}

	defer d.CloseConnection(ctx, conn) //nolint:errcheck

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return *new(T), aerr.ApplyFor(aerr.ErrDatabase, err, "begin tx failed")
	}

	res, err := fun(WithCtx(ctx, tx))
	if err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			merr := errors.Join(err, fmt.Errorf("rollback error: %w", rerr))

			return res, aerr.ApplyFor(aerr.ErrDatabase, merr, "execute func in trans and rollback error")
		}

		return res, err
	}

	if err := tx.Commit(); err != nil {
		return res, aerr.ApplyFor(aerr.ErrDatabase, err, "commit tx failed")
	}

	return res, nil
}

// InTransaction run `fun` in db transaction.
func InTransaction(ctx context.Context, d Database, fun func(ctx context.Context) error) error {
	_, err := InTransactionR(ctx, d, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fun(ctx)
	})

	return err
}
