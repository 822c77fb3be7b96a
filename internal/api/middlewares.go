package api

//
// middlewares.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/http"

	"github.com/rs/zerolog/hlog"
	"gitlab.com/kabes/go-calsub/internal/common"
	"gitlab.com/kabes/go-calsub/internal/config"
	"gitlab.com/kabes/go-calsub/internal/validators"
)

//-------------------------------------------------------------

// ownerFromHeaderMiddleware take owner identity from the configured
// header. The header is trusted only when the request comes from an
// address on the proxy access list.
func ownerFromHeaderMiddleware(conf *config.ServerConf) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger := hlog.FromRequest(req)

			if !conf.AuthProxyRequest(req.RemoteAddr) {
				logger.Warn().Str(common.LogKeyAuthResult, common.LogAuthResultFailed).
					Msgf("owner header from untrusted address %q", req.RemoteAddr)
				w.WriteHeader(http.StatusForbidden)

				return
			}

			owner := req.Header.Get(conf.OwnerHeader)
			if !validators.IsValidOwnerID(owner) {
				logger.Debug().Str(common.LogKeyAuthResult, common.LogAuthResultFailed).
					Msg("missing or invalid owner header")
				w.WriteHeader(http.StatusUnauthorized)

				return
			}

			ctx := common.ContextWithOwner(req.Context(), owner)
			llogger := logger.With().Str(common.LogKeyOwnerID, owner).Logger()
			ctx = llogger.WithContext(ctx)

			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}
