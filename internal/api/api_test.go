package api

//
// api_test.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/assert"
	"gitlab.com/kabes/go-calsub/internal/command"
	"gitlab.com/kabes/go-calsub/internal/config"
	"gitlab.com/kabes/go-calsub/internal/db"
	"gitlab.com/kabes/go-calsub/internal/feed"
	"gitlab.com/kabes/go-calsub/internal/infra"
	"gitlab.com/kabes/go-calsub/internal/service"
)

const testOwnerHeader = "X-Auth-User"

func prepareTests(t *testing.T) (context.Context, do.Injector, http.Handler) {
	t.Helper()

	return prepareTestsWebRoot(t, "")
}

func prepareTestsWebRoot(t *testing.T, webroot string) (context.Context, do.Injector, http.Handler) {
	t.Helper()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout}).With().Caller().Logger()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	ctx := log.Logger.WithContext(context.Background())

	sconf := &config.ServerConf{
		MainServer:      config.ListenConf{Address: "localhost:8080", WebRoot: webroot},
		OwnerHeader:     testOwnerHeader,
		ProxyAccessList: "192.0.2.0/24",
	}
	if err := sconf.Validate(); err != nil {
		t.Fatalf("validate server conf failed: %#+v", err)
	}

	i := do.New(Package, service.Package, infra.Package)
	do.ProvideValue(i, config.NewDBConfig("sqlite3", ":memory:"))
	do.ProvideValue(i, config.NewFeedConf("cal.example.com", time.Minute, time.Hour, 3))
	do.ProvideValue(i, sconf)
	do.Provide(i, feed.NewRendererI)

	database := do.MustInvoke[db.Database](i)
	if _, err := database.Open(ctx); err != nil {
		t.Fatalf("open db error: %#+v", err)
	}

	if err := database.Migrate(ctx); err != nil {
		t.Fatalf("prepare db error: %#+v", err)
	}

	a := do.MustInvoke[API](i)

	router := chi.NewRouter()
	router.Mount(webroot+"/api/1", a.Routes(i))
	router.Mount(webroot+"/feed", a.FeedRoutes(i))

	return ctx, i, router
}

func doRequest(t *testing.T, router http.Handler, method, path, owner string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if owner != "" {
		req.Header.Set(testOwnerHeader, owner)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q failed: %s", w.Body.String(), err)
	}
}

// seed helpers go through the services; calendars and events have no
// http mutation surface.

func seedCalendar(ctx context.Context, t *testing.T, i do.Injector, owner, name string) string {
	t.Helper()

	calsSrv := do.MustInvoke[*service.CalendarsSrv](i)

	res, err := calsSrv.CreateCalendar(ctx, &command.NewCalendarCmd{OwnerID: owner, Name: name})
	if err != nil {
		t.Fatalf("seed calendar failed: %#+v", err)
	}

	return res.CalendarID
}

func seedEvent(ctx context.Context, t *testing.T, i do.Injector, calendarID, title string, start time.Time) string {
	t.Helper()

	eventsSrv := do.MustInvoke[*service.EventsSrv](i)

	res, err := eventsSrv.CreateEvent(ctx, &command.NewEventCmd{
		CalendarID: calendarID,
		Title:      title,
		StartsAt:   start,
		EndsAt:     start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("seed event failed: %#+v", err)
	}

	return res.EventID
}

type subscriptionResp struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	Status          string `json:"status"`
	SubscriptionURL string `json:"subscription_url"`
}

func createTestSubscription(t *testing.T, router http.Handler, owner, path string) subscriptionResp {
	t.Helper()

	w := doRequest(t, router, http.MethodGet, path, owner)
	assert.Equal(t, w.Code, http.StatusCreated)

	var sub subscriptionResp

	decodeBody(t, w, &sub)

	return sub
}

//-------------------------------------------------------------

func TestAPIOwnerRequired(t *testing.T) {
	_, _, router := prepareTests(t)

	w := doRequest(t, router, http.MethodGet, "/api/1/subscriptions/", "")
	assert.Equal(t, w.Code, http.StatusUnauthorized)
}

func TestAPIUntrustedProxy(t *testing.T) {
	_, _, router := prepareTests(t)

	req := httptest.NewRequest(http.MethodGet, "/api/1/subscriptions/", nil)
	req.Header.Set(testOwnerHeader, "alice")
	req.RemoteAddr = "203.0.113.7:4444"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusForbidden)
}

func TestAPIListSubscriptionsEmpty(t *testing.T) {
	_, _, router := prepareTests(t)

	w := doRequest(t, router, http.MethodGet, "/api/1/subscriptions/", "alice")
	assert.Equal(t, w.Code, http.StatusOK)

	var subs []subscriptionResp

	decodeBody(t, w, &subs)
	assert.Equal(t, len(subs), 0)
}

func TestAPICreateSubscription(t *testing.T) {
	_, _, router := prepareTests(t)

	sub := createTestSubscription(t, router, "alice", "/api/1/subscriptions/user")
	assert.Equal(t, sub.DisplayName, "All My Events")
	assert.Equal(t, sub.Status, "active")
	assert.True(t, strings.HasPrefix(sub.SubscriptionURL, "http://cal.example.com/feed/"))

	w := doRequest(t, router, http.MethodGet, "/api/1/subscriptions/", "alice")
	assert.Equal(t, w.Code, http.StatusOK)

	var subs []subscriptionResp

	decodeBody(t, w, &subs)
	assert.Equal(t, len(subs), 1)
	assert.Equal(t, subs[0].ID, sub.ID)
}

func TestAPICreateSubscriptionUnknownCalendar(t *testing.T) {
	_, _, router := prepareTests(t)

	w := doRequest(t, router, http.MethodGet,
		"/api/1/subscriptions/calendar/aaaaaaaaaaaaaaaaaaaa", "alice")
	assert.Equal(t, w.Code, http.StatusNotFound)
}

func TestAPICalendarsAndFeed(t *testing.T) {
	ctx, i, router := prepareTests(t)

	calID := seedCalendar(ctx, t, i, "alice", "Team")
	seedEvent(ctx, t, i, calID, "standup", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))

	// list calendars
	w := doRequest(t, router, http.MethodGet, "/api/1/calendars/", "alice")
	assert.Equal(t, w.Code, http.StatusOK)

	var cals []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	decodeBody(t, w, &cals)
	assert.Equal(t, len(cals), 1)
	assert.Equal(t, cals[0].Name, "Team")

	// subscribe to the calendar
	sub := createTestSubscription(t, router, "alice", "/api/1/subscriptions/calendar/"+calID)
	assert.Equal(t, sub.DisplayName, "Team")

	// pull the feed; no owner header needed
	w = doRequest(t, router, http.MethodGet, sub.SubscriptionURL, "")
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, w.Header().Get("Content-Type"), "text/calendar; charset=utf-8")
	assert.True(t, w.Header().Get("ETag") != "")
	assert.True(t, strings.Contains(w.Header().Get("Cache-Control"), "max-age=3600"))
	assert.True(t, strings.Contains(w.Body.String(), "SUMMARY:standup"))

	// conditional request
	etag := w.Header().Get("ETag")
	req := httptest.NewRequest(http.MethodGet, sub.SubscriptionURL, nil)
	req.Header.Set("If-None-Match", etag)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusNotModified)
}

func TestAPISubscriptionURLWithWebRoot(t *testing.T) {
	_, _, router := prepareTestsWebRoot(t, "/cal")

	sub := createTestSubscription(t, router, "alice", "/cal/api/1/subscriptions/user")
	assert.True(t, strings.HasPrefix(sub.SubscriptionURL, "http://cal.example.com/cal/feed/"))

	// the advertised url must resolve as-is; clients paste it verbatim
	w := doRequest(t, router, http.MethodGet, sub.SubscriptionURL, "")
	assert.Equal(t, w.Code, http.StatusOK)
}

func TestAPIFeedStoreTimeout(t *testing.T) {
	_, _, router := prepareTests(t)

	sub := createTestSubscription(t, router, "alice", "/api/1/subscriptions/user")

	// expired deadline stands in for a stalled store call
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, sub.SubscriptionURL, nil).WithContext(ctx)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusServiceUnavailable)
	assert.Equal(t, w.Header().Get("Retry-After"), "30")
}

func TestAPIFeedUnknownToken(t *testing.T) {
	_, _, router := prepareTests(t)

	w := doRequest(t, router, http.MethodGet, "/feed/"+strings.Repeat("a", 64), "")
	assert.Equal(t, w.Code, http.StatusNotFound)
}

func TestAPIRevokeSubscription(t *testing.T) {
	_, _, router := prepareTests(t)

	sub := createTestSubscription(t, router, "alice", "/api/1/subscriptions/user")

	// feed works while active
	w := doRequest(t, router, http.MethodGet, sub.SubscriptionURL, "")
	assert.Equal(t, w.Code, http.StatusOK)

	w = doRequest(t, router, http.MethodDelete, "/api/1/subscriptions/"+sub.ID+"/revoke", "alice")
	assert.Equal(t, w.Code, http.StatusOK)

	var rres struct {
		AlreadyRevoked bool `json:"already_revoked"`
	}

	decodeBody(t, w, &rres)
	assert.True(t, !rres.AlreadyRevoked)

	// revoked feed is gone, not missing
	w = doRequest(t, router, http.MethodGet, sub.SubscriptionURL, "")
	assert.Equal(t, w.Code, http.StatusGone)

	// repeated revoke is a no-op
	w = doRequest(t, router, http.MethodDelete, "/api/1/subscriptions/"+sub.ID+"/revoke", "alice")
	assert.Equal(t, w.Code, http.StatusOK)
	decodeBody(t, w, &rres)
	assert.True(t, rres.AlreadyRevoked)
}

func TestAPIRevokeForeignSubscription(t *testing.T) {
	_, _, router := prepareTests(t)

	sub := createTestSubscription(t, router, "alice", "/api/1/subscriptions/user")

	w := doRequest(t, router, http.MethodDelete, "/api/1/subscriptions/"+sub.ID+"/revoke", "bob")
	assert.Equal(t, w.Code, http.StatusNotFound)
}
