//
// mod.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

// Package api expose the owner-facing management resources and the
// public feed endpoint.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/config"
)

type API struct{}

func New(_ do.Injector) (API, error) {
	return API{}, nil
}

// Routes return the owner api router; identity is asserted by a trusted
// proxy header.
func (a *API) Routes(i do.Injector) chi.Router {
	conf := do.MustInvoke[*config.ServerConf](i)
	subsRes := do.MustInvoke[*subscriptionsResource](i)
	calsRes := do.MustInvoke[*calendarsResource](i)

	router := chi.NewRouter()
	router.Use(ownerFromHeaderMiddleware(conf))
	router.Mount("/subscriptions", subsRes.Routes())
	router.Mount("/calendars", calsRes.Routes())

	return router
}

// FeedRoutes return the public feed router; token is the only credential.
func (a *API) FeedRoutes(i do.Injector) chi.Router {
	feedRes := do.MustInvoke[*feedResource](i)

	return feedRes.Routes()
}
