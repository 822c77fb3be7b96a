package cli

//
// serve.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Merovius/systemd"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-calsub/internal/aerr"
	calapi "gitlab.com/kabes/go-calsub/internal/api"
	"gitlab.com/kabes/go-calsub/internal/common"
	"gitlab.com/kabes/go-calsub/internal/config"
	"gitlab.com/kabes/go-calsub/internal/db"
	"gitlab.com/kabes/go-calsub/internal/server"
	"gitlab.com/kabes/go-calsub/internal/service"
)

func newStartServerCmd() *cli.Command { //nolint:funlen
	return &cli.Command{
		Name:  "serve",
		Usage: "start server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Value:   ":8080",
				Usage:   "listen address",
				Aliases: []string{"a"},
				Sources: cli.EnvVars("GOCALSUB_SERVER_ADDRESS"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "web-root",
				Value:   "/",
				Usage:   "path root",
				Sources: cli.EnvVars("GOCALSUB_SERVER_WEBROOT"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.BoolFlag{
				Name:    "enable-metrics",
				Usage:   "enable prometheus metrics (/metrics endpoint)",
				Sources: cli.EnvVars("GOCALSUB_SERVER_METRICS"),
			},
			&cli.StringFlag{
				Name:      "cert",
				Usage:     "tls certificate file",
				Sources:   cli.EnvVars("GOCALSUB_SERVER_CERT"),
				Config:    cli.StringConfig{TrimSpace: true},
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:      "key",
				Usage:     "tls key file",
				Sources:   cli.EnvVars("GOCALSUB_SERVER_KEY"),
				Config:    cli.StringConfig{TrimSpace: true},
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:    "owner-header",
				Value:   "X-Auth-User",
				Usage:   "http header with owner id set by the authenticating proxy",
				Sources: cli.EnvVars("GOCALSUB_SERVER_OWNER_HEADER"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "proxy-access-list",
				Value:   "",
				Usage:   "list of ip or networks separated by ',' trusted to set the owner header; empty allows only loopback and private addresses",
				Sources: cli.EnvVars("GOCALSUB_SERVER_PROXY_ACCESS_LIST"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "feed-domain",
				Value:   "localhost",
				Usage:   "domain used in feed event uids",
				Sources: cli.EnvVars("GOCALSUB_FEED_DOMAIN"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.DurationFlag{
				Name:    "feed-cache-ttl",
				Value:   5 * time.Minute,
				Usage:   "how long a rendered feed may be served from memory",
				Sources: cli.EnvVars("GOCALSUB_FEED_CACHE_TTL"),
			},
			&cli.DurationFlag{
				Name:    "feed-max-age",
				Value:   time.Hour,
				Usage:   "max-age advertised to calendar clients via Cache-Control",
				Sources: cli.EnvVars("GOCALSUB_FEED_MAX_AGE"),
			},
			&cli.Uint64Flag{
				Name:    "feed-source-retries",
				Value:   3,
				Usage:   "event source read attempts per feed request",
				Sources: cli.EnvVars("GOCALSUB_FEED_SOURCE_RETRIES"),
			},
			&cli.StringFlag{
				Name:    "mgmt-address",
				Value:   "",
				Usage:   "listen address for management endpoints; empty disable management; may be the same as main 'address'",
				Aliases: []string{"m"},
				Sources: cli.EnvVars("GOCALSUB_MGMT_SERVER_ADDRESS"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "mgmt-access-list",
				Value:   "",
				Usage:   "list of ip or networks separated by ',' allowed to connected to mgmt endpoints.",
				Sources: cli.EnvVars("GOCALSUB_MGMT_SERVER_ACCESS_LIST"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.BoolFlag{
				Name:    "set-security-headers",
				Usage:   "enable add some http security related headers",
				Sources: cli.EnvVars("GOCALSUB_SET_SECURITY_HEADERS"),
			},
		},
		Action: wrap(startServerCmd),
	}
}

func startServerCmd(ctx context.Context, clicmd *cli.Command, rootInjector do.Injector) error {
	injector := rootInjector.Scope("server",
		calapi.Package,
		server.Package,
	)

	serverConf := config.ServerConf{
		MainServer: config.ListenConf{
			Address: strings.TrimSpace(clicmd.String("address")),
			WebRoot: strings.TrimSuffix(clicmd.String("web-root"), "/"),
			TLSKey:  clicmd.String("key"),
			TLSCert: clicmd.String("cert"),
		},
		MgmtServer: config.ListenConf{
			Address: strings.TrimSpace(clicmd.String("mgmt-address")),
			// mgmt not use for now tls/webroot
		},
		DebugFlags:         config.NewDebugFLags(clicmd.String("debug")),
		EnableMetrics:      clicmd.Bool("enable-metrics"),
		MgmtAccessList:     clicmd.String("mgmt-access-list"),
		SetSecurityHeaders: clicmd.Bool("set-security-headers"),
		OwnerHeader:        clicmd.String("owner-header"),
		ProxyAccessList:    clicmd.String("proxy-access-list"),
	}

	if err := serverConf.Validate(); err != nil {
		return aerr.Wrapf(err, "server config validation failed")
	}

	feedConf := config.NewFeedConf(
		clicmd.String("feed-domain"),
		clicmd.Duration("feed-cache-ttl"),
		clicmd.Duration("feed-max-age"),
		clicmd.Uint64("feed-source-retries"),
	)

	if err := feedConf.Validate(); err != nil {
		return aerr.Wrapf(err, "feed config validation failed")
	}

	// cache and renderer live in the root scope, so their config must too
	do.ProvideValue(rootInjector, feedConf)
	do.ProvideValue(injector, &serverConf)

	if serverConf.DebugFlags.HasFlag(config.DebugDo) {
		enableDoDebug(ctx, injector)
	}

	s := Server{}

	return s.start(ctx, injector, &serverConf)
}

type Server struct{}

func (s *Server) start(ctx context.Context, injector do.Injector, cfg *config.ServerConf) error {
	logger := log.Ctx(ctx)
	logger.Log().Msgf("Starting go-calsub (%s)...", config.VersionString)
	logger.Debug().Msgf("Server: debug_flags=%q", cfg.DebugFlags)

	s.startSystemdWatchdog(logger)

	if cfg.EnableMetrics {
		database := do.MustInvoke[db.Database](injector)
		db.RegisterMetrics(database.GetDB(), cfg.DebugFlags.HasFlag(config.DebugDBQueryMetrics))

		cache := do.MustInvoke[*service.FeedCache](injector)
		cache.RegisterMetrics()
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	srv := do.MustInvoke[*server.Server](injector)
	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Msgf("start server failed error=%q", err)

		return aerr.New("failed start server")
	}

	if cfg.SeparateMgmtEnabled() {
		msrv := do.MustInvoke[*server.MgmtServer](injector)
		if err := msrv.Start(ctx); err != nil {
			logger.Error().Err(err).Msgf("start mgmt server failed error=%q", err)

			return aerr.New("failed start mgmt server")
		}
	}

	maintSrv := do.MustInvoke[*service.MaintenanceSrv](injector)
	cache := do.MustInvoke[*service.FeedCache](injector)
	go s.runBackgroundMaintenance(ctx, maintSrv, cache)

	systemd.NotifyReady()           //nolint:errcheck
	systemd.NotifyStatus("running") //nolint:errcheck

	<-ctx.Done()

	systemd.NotifyStatus("stopped") //nolint:errcheck

	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second) //nolint:mnd
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msgf("shutdown server error=%q", err)
	}

	if cfg.SeparateMgmtEnabled() {
		msrv := do.MustInvoke[*server.MgmtServer](injector)
		if err := msrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msgf("shutdown mgmt server error=%q", err)
		}
	}

	return nil
}

func (*Server) startSystemdWatchdog(logger *zerolog.Logger) {
	if ok, dur, err := systemd.AutoWatchdog(); ok {
		logger.Info().Msgf("Systemd: autowatchdog started; duration=%s", dur)
	} else if err != nil {
		logger.Warn().Err(err).Msgf("Systemd: autowatchdog start error=%q", err)
	}
}

func (s *Server) runBackgroundMaintenance(
	ctx context.Context, maintSrv *service.MaintenanceSrv, cache *service.FeedCache,
) {
	const startHour = 4

	logger := log.Ctx(ctx)
	logger.Info().Msg("Maintenance: start background maintenance task")

	eventlog := common.NewEventLog("db maintenance", "worker")
	defer eventlog.Close()

	ctx = common.ContextWithEventLog(ctx, eventlog)

	for {
		now := time.Now().UTC()
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), startHour, 0, 0, 0, time.UTC)

		if nextRun.Before(now) {
			nextRun = nextRun.Add(time.Duration(60*60*24) * time.Second) //nolint:mnd
		}

		wait := nextRun.Sub(now)

		logger.Debug().Msgf("Maintenance: next_run=%q wait=%q", nextRun, wait)
		eventlog.Printf("maintenance next_run=%q wait=%q", nextRun, wait)

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
			taskid := xid.New()
			llog := logger.With().Str("task_id", taskid.String()).Logger() //nolint:nilaway
			eventlog.Printf("start maintenance task_id=%s", taskid.String())

			if err := maintSrv.MaintainDatabase(hlog.CtxWithID(ctx, taskid)); err != nil {
				llog.Error().Err(err).Msgf("Maintenance: run database maintenance task error=%q", err)
				eventlog.Errorf("maintenance error task_id=%s error=%q", taskid.String(), err)
			} else {
				eventlog.Printf("maintenance finished task_id=%s", taskid.String())
			}

			removed := cache.SweepExpired(time.Now().UTC())
			llog.Debug().Msgf("Maintenance: feed cache sweep removed=%d", removed)
		}
	}
}
