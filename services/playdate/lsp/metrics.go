// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lsp

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for installer operations.
var (
	tracer = otel.Tracer("playdate.lsp")
	meter  = otel.Meter("playdate.lsp")
)

// Metrics for installer operations.
var (
	installTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		installTotal, metricsErr = meter.Int64Counter(
			"lsp_install_total",
			metric.WithDescription("Total number of language server install attempts"),
		)
	})
	return metricsErr
}

// startInstallSpan creates a span for an install attempt.
func startInstallSpan(ctx context.Context, serverID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Installer.installServer",
		trace.WithAttributes(
			attribute.String("lsp.server_id", serverID),
		),
	)
}

// recordInstall records an install attempt.
func recordInstall(ctx context.Context, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	installTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("success", success),
	))
}
