package cli

//
// do.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/db"
	"gitlab.com/kabes/go-calsub/internal/feed"
	"gitlab.com/kabes/go-calsub/internal/infra"
	"gitlab.com/kabes/go-calsub/internal/service"
)

func createInjector(ctx context.Context) do.Injector {
	injector := do.New(
		service.Package,
		infra.Package,
	)

	do.Provide(injector, feed.NewRendererI)

	logger := log.Ctx(ctx)
	logger.Debug().Msgf("Available services: %v", injector.ListProvidedServices())

	return injector
}

func shutdownInjector(ctx context.Context, injector do.Injector) {
	logger := log.Ctx(ctx)

	database := do.MustInvoke[db.Database](injector)
	if err := database.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msgf("shutdown database error=%q", err)
	}
}

func enableDoDebug(ctx context.Context, injector do.Injector) {
	logger := log.Ctx(ctx)
	logger.Debug().Msgf("Available services: %v", injector.ListProvidedServices())

	explanation := do.ExplainInjector(injector)
	logger.Debug().Msg(explanation.String())
}
