// calendars.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/common"
	"gitlab.com/kabes/go-calsub/internal/query"
	"gitlab.com/kabes/go-calsub/internal/service"
)

// calendarsResource is a read-only projection of the event source;
// calendars and events are maintained via the cli, never over http.
type calendarsResource struct {
	calsSrv *service.CalendarsSrv
}

func newCalendarsResource(i do.Injector) (*calendarsResource, error) {
	return &calendarsResource{
		calsSrv: do.MustInvoke[*service.CalendarsSrv](i),
	}, nil
}

func (cr *calendarsResource) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", cr.list)

	return r
}

//-------------------------------------------------------------

func (cr *calendarsResource) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := query.ListCalendarsQuery{OwnerID: common.ContextOwner(ctx)}

	cals, err := cr.calsSrv.ListCalendars(ctx, &q)
	if err != nil {
		checkAndWriteError(w, r, err)

		return
	}

	type calendarJSON struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description,omitempty"`
		CreatedAt   time.Time `json:"created_at"`
	}

	res := make([]calendarJSON, len(cals))
	for i, cal := range cals {
		res[i] = calendarJSON{cal.ID, cal.Name, cal.Description, cal.CreatedAt}
	}

	render.JSON(w, r, res)
}
