// helpers.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/rs/zerolog/hlog"
	"gitlab.com/kabes/go-calsub/internal/aerr"
	"gitlab.com/kabes/go-calsub/internal/common"
)

// checkAndWriteError map service error to http status and write it.
func checkAndWriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, common.ErrRevokedToken):
		// revoked is permanent, let clients stop polling
		status = http.StatusGone

	case errors.Is(err, common.ErrUnknownToken),
		errors.Is(err, common.ErrUnknownSubscription),
		errors.Is(err, common.ErrUnknownCalendar),
		errors.Is(err, common.ErrUnknownEvent):
		status = http.StatusNotFound

	case errors.Is(err, common.ErrUnauthorized):
		status = http.StatusForbidden

	case aerr.HasTag(err, aerr.UpstreamError),
		errors.Is(err, context.DeadlineExceeded):
		// transient; store or event source did not answer in time
		status = http.StatusServiceUnavailable

		w.Header().Set("Retry-After", "30")

	case aerr.HasTag(err, aerr.ValidationError), aerr.HasTag(err, aerr.DataError):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	} else {
		hlog.FromRequest(r).Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	writeError(w, r, status, aerr.GetUserMessage(err))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}

	res := struct {
		Error string `json:"error"`
	}{msg}

	render.Status(r, status)
	render.JSON(w, r, &res)
}
