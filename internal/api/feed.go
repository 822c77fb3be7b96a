// feed.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-calsub/internal/config"
	"gitlab.com/kabes/go-calsub/internal/service"
)

type feedResource struct {
	feedSrv *service.FeedSrv
	conf    config.FeedConf
}

func newFeedResource(i do.Injector) (*feedResource, error) {
	return &feedResource{
		feedSrv: do.MustInvoke[*service.FeedSrv](i),
		conf:    do.MustInvoke[config.FeedConf](i),
	}, nil
}

func (fr *feedResource) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{token:[A-Za-z0-9_-]+}", fr.get)

	return r
}

func (fr *feedResource) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := fr.feedSrv.GetFeed(ctx, chi.URLParam(r, "token"))
	if err != nil {
		checkAndWriteError(w, r, err)

		return
	}

	etag := `"` + res.ETag + `"`

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control",
		"public, max-age="+strconv.Itoa(int(fr.conf.ClientMaxAge.Seconds())))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)

		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.DisplayName+`.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write(res.Content) //nolint:errcheck
}
