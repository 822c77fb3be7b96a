package db

//
// metrics.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"database/sql"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

//nolint:gochecknoglobals
var queryDuration *prometheus.HistogramVec

// RegisterMetrics register database stats collector; with queryTime also
// per-caller query duration histogram observed by the runners.
func RegisterMetrics(sqldb *sql.DB, queryTime bool) {
	prometheus.DefaultRegisterer.MustRegister(collectors.NewDBStatsCollector(sqldb, "main"))

	if queryTime {
		queryDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "database_query_duration_seconds",
				Help:    "Tracks the latencies for database query.",
				Buckets: []float64{0.1, 0.2, 0.5, 1, 2, 5},
			},
			[]string{"caller"},
		)

		prometheus.DefaultRegisterer.MustRegister(queryDuration)
	}
}

func observeQueryDuration() func() {
	if queryDuration == nil {
		return func() {}
	}

	start := time.Now()

	const skipFrames = 3

	rpc := make([]uintptr, 1)
	if n := runtime.Callers(skipFrames, rpc); n < 1 {
		return func() {}
	}

	frame, _ := runtime.CallersFrames(rpc).Next()
	if frame.PC == 0 {
		return func() {}
	}

	caller := frame.Function

	return func() {
		queryDuration.WithLabelValues(caller).Observe(time.Since(start).Seconds())
	}
}
