// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package depgraph

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer instruments engine entry points.
var tracer = otel.Tracer("meridian.depgraph")

var (
	// cycleChecks counts write-time cycle-guard decisions by outcome.
	// Outcomes: "allowed", "cycle", "same_family", "invalid".
	cycleChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meridian",
		Subsystem: "depgraph",
		Name:      "cycle_checks_total",
		Help:      "Write-time cycle guard decisions by outcome.",
	}, []string{"outcome"})

	// corpusScans counts offline integrity scans.
	corpusScans = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "meridian",
		Subsystem: "depgraph",
		Name:      "corpus_scans_total",
		Help:      "Corpus cycle scans executed.",
	})

	// corpusCyclesFound tracks cycles reported by the last scan.
	corpusCyclesFound = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "meridian",
		Subsystem: "depgraph",
		Name:      "corpus_cycles_found",
		Help:      "Cycles reported by the most recent corpus scan.",
	})

	// snapshotEdges observes the active-edge snapshot size per
	// validation, a proxy for graph build cost.
	snapshotEdges = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "meridian",
		Subsystem: "depgraph",
		Name:      "snapshot_edges",
		Help:      "Active edges in the snapshot used for a validation.",
		Buckets:   prometheus.ExponentialBuckets(8, 4, 8),
	})

	// obsolescenceDecisions counts family retirement decisions.
	// Outcomes: "allowed", "newer_version", "blocked".
	obsolescenceDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meridian",
		Subsystem: "depgraph",
		Name:      "obsolescence_decisions_total",
		Help:      "Family obsolescence decisions by outcome.",
	}, []string{"outcome"})
)

// loggerWithTrace returns a logger with trace context attached so log
// lines correlate with spans.
func loggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		slog.String("trace_id", spanCtx.TraceID().String()),
		slog.String("span_id", spanCtx.SpanID().String()),
	)
}
