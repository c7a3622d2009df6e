// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vigil

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// setupTracing configures the global OTel trace provider. Spans are
// exported via OTLP over HTTP (configured through the standard
// OTEL_EXPORTER_OTLP_* env vars), or to stdout when configured for
// debugging.
func (n *Node) setupTracing() error {
	var err error
	var shutdownFuncs []func(context.Context) error
	// handleErr calls shutdown for cleanup and makes sure that all errors are returned
	handleErr := func(inErr error) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(context.TODO()))
		}
		shutdownFuncs = nil
		return errors.Join(inErr, err)
	}
	prop := propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
	otel.SetTextMapPropagator(prop)
	var traceExporter trace.SpanExporter
	if n.config.tracingStdout {
		traceExporter, err = stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
		)
	} else {
		traceExporter, err = otlptracehttp.New(context.TODO())
	}
	if err != nil {
		return handleErr(err)
	}
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("vigil"),
		),
	)
	if err != nil {
		return handleErr(err)
	}
	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(
			traceExporter,
			trace.WithBatchTimeout(time.Second),
		),
		trace.WithResource(res),
	)
	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)
	n.shutdownFuncs = append(n.shutdownFuncs, shutdownFuncs...)
	return nil
}
