// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dap

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for adapter resolution.
var (
	tracer = otel.Tracer("playdate.dap")
	meter  = otel.Meter("playdate.dap")
)

// Metrics for adapter resolution.
var (
	resolveTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		resolveTotal, metricsErr = meter.Int64Counter(
			"dap_resolve_total",
			metric.WithDescription("Total number of debug adapter resolutions"),
		)
	})
	return metricsErr
}

// startResolveSpan creates a span for an adapter resolution.
func startResolveSpan(ctx context.Context, adapterName string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Resolver.Resolve",
		trace.WithAttributes(
			attribute.String("dap.adapter", adapterName),
		),
	)
}

// recordResolve records a resolution attempt.
func recordResolve(ctx context.Context, adapterName string, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	resolveTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("adapter", adapterName),
		attribute.Bool("success", success),
	))
}
