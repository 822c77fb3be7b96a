// subscriptions.go
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
	"gitlab.com/kabes/go-calsub/internal/command"
	"gitlab.com/kabes/go-calsub/internal/common"
	"gitlab.com/kabes/go-calsub/internal/config"
	"gitlab.com/kabes/go-calsub/internal/model"
	"gitlab.com/kabes/go-calsub/internal/query"
	"gitlab.com/kabes/go-calsub/internal/service"
)

type subscriptionsResource struct {
	subsSrv *service.SubscriptionsSrv

	// feedBase is the advertised feed location prefix; tokens are pasted
	// into external calendar clients, so the url must be absolute and
	// include the configured web root.
	feedBase string
}

func newSubscriptionsResource(i do.Injector) (*subscriptionsResource, error) {
	sconf := do.MustInvoke[*config.ServerConf](i)
	fconf := do.MustInvoke[config.FeedConf](i)

	scheme := "http"
	if sconf.MainServer.TLSEnabled() {
		scheme = "https"
	}

	return &subscriptionsResource{
		subsSrv:  do.MustInvoke[*service.SubscriptionsSrv](i),
		feedBase: scheme + "://" + fconf.Domain + sconf.MainServer.WebRoot + "/feed/",
	}, nil
}

// Routes build the subscription router. Creation is a GET, as calendar
// clients and the original surface expect; the minted record comes back
// in the response body.
func (sr *subscriptionsResource) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", sr.list)
	r.Get("/calendar/{calendarid:[a-z0-9]+}", sr.createForCalendar)
	r.Get("/user", sr.createForAllEvents)
	r.Delete("/{subscriptionid:[a-z0-9]+}/revoke", sr.revoke)

	return r
}

//-------------------------------------------------------------

type subscriptionJSON struct {
	ID              string     `json:"id"`
	DisplayName     string     `json:"display_name"`
	Status          string     `json:"status"`
	CalendarID      *string    `json:"calendar_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	LastUsedAt      *time.Time `json:"last_used_at,omitempty"`
	SubscriptionURL string     `json:"subscription_url"`
}

func (sr *subscriptionsResource) subscriptionToJSON(sub *model.SubscriptionInfo) subscriptionJSON {
	return subscriptionJSON{
		ID:              sub.ID,
		DisplayName:     sub.DisplayName,
		Status:          string(sub.Status),
		CalendarID:      sub.CalendarID,
		CreatedAt:       sub.CreatedAt,
		LastUsedAt:      sub.LastUsedAt,
		SubscriptionURL: sr.feedBase + sub.Token,
	}
}

//-------------------------------------------------------------

func (sr *subscriptionsResource) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := query.ListSubscriptionsQuery{OwnerID: common.ContextOwner(ctx)}

	subs, err := sr.subsSrv.ListSubscriptions(ctx, &q)
	if err != nil {
		checkAndWriteError(w, r, err)

		return
	}

	res := make([]subscriptionJSON, len(subs))
	for i, sub := range subs {
		res[i] = sr.subscriptionToJSON(&sub)
	}

	render.JSON(w, r, res)
}

func (sr *subscriptionsResource) createForCalendar(w http.ResponseWriter, r *http.Request) {
	calendarID := chi.URLParam(r, "calendarid")
	sr.create(w, r, &calendarID)
}

func (sr *subscriptionsResource) createForAllEvents(w http.ResponseWriter, r *http.Request) {
	sr.create(w, r, nil)
}

func (sr *subscriptionsResource) create(w http.ResponseWriter, r *http.Request, calendarID *string) {
	ctx := r.Context()

	cmd := command.CreateSubscriptionCmd{
		OwnerID:    common.ContextOwner(ctx),
		CalendarID: calendarID,
	}

	sub, err := sr.subsSrv.CreateSubscription(ctx, &cmd)
	if err != nil {
		checkAndWriteError(w, r, err)

		return
	}

	res := sr.subscriptionToJSON(sub)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, &res)
}

func (sr *subscriptionsResource) revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cmd := command.RevokeSubscriptionCmd{
		OwnerID:        common.ContextOwner(ctx),
		SubscriptionID: chi.URLParam(r, "subscriptionid"),
	}

	cres, err := sr.subsSrv.RevokeSubscription(ctx, &cmd)
	if err != nil {
		checkAndWriteError(w, r, err)

		return
	}

	res := struct {
		AlreadyRevoked bool `json:"already_revoked"`
	}{cres.AlreadyRevoked}

	render.JSON(w, r, &res)
}
