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
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/vigil/risk"
	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	promRegistry         prometheus.Registerer
	logger               *slog.Logger
	dataDir              string
	apiListenAddress     string
	mlEndpoint           string
	mlFallbackLabel      string
	mlTimeout            time.Duration
	votingWindow         time.Duration
	mirrorStalenessBound time.Duration
	shutdownTimeout      time.Duration
	tracing              bool
	tracingStdout        bool
}

func (n *Node) configValidate() error {
	if n.config.mlFallbackLabel != "" {
		if _, err := risk.ParseLabel(n.config.mlFallbackLabel); err != nil {
			return fmt.Errorf(
				"invalid ML fallback label: %q",
				n.config.mlFallbackLabel,
			)
		}
	}
	if n.config.mlEndpoint == "" && n.config.mlFallbackLabel == "" {
		return fmt.Errorf(
			"either an ML endpoint or a fallback label must be configured",
		)
	}
	if n.config.votingWindow < 0 {
		return fmt.Errorf(
			"invalid voting window: %s",
			n.config.votingWindow,
		)
	}
	return nil
}

// ConfigOptionFunc is a type that represents functions that modify the node config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new vigil config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger specifies the logger to use. This defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithDatabasePath specifies the persistent data directory to use. The default is to store everything in memory
func WithDatabasePath(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithApiListenAddress specifies the listen address for the REST API
// server. The default is ":8080"
func WithApiListenAddress(addr string) ConfigOptionFunc {
	return func(c *Config) {
		c.apiListenAddress = addr
	}
}

// WithMlEndpoint specifies the predict URL of the external ML fraud
// classifier. An empty value disables the classifier, in which case a
// fallback label must be configured
func WithMlEndpoint(endpoint string) ConfigOptionFunc {
	return func(c *Config) {
		c.mlEndpoint = endpoint
	}
}

// WithMlTimeout specifies the per-call timeout for the ML classifier
func WithMlTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.mlTimeout = timeout
	}
}

// WithMlFallbackLabel specifies the classifier label assumed when the ML
// collaborator is unreachable. An empty value makes ML outages a hard
// error for assessment requests
func WithMlFallbackLabel(label string) ConfigOptionFunc {
	return func(c *Config) {
		c.mlFallbackLabel = label
	}
}

// WithVotingWindow specifies the voting window for new proposals. The
// default is 72 hours
func WithVotingWindow(window time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.votingWindow = window
	}
}

// WithMirrorStalenessBound specifies the maximum mirror heartbeat age
// before trust reads fall back to the ledger. The default is 3 minutes
func WithMirrorStalenessBound(bound time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.mirrorStalenessBound = bound
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer instance to add metrics to. In most cases, prometheus.DefaultRegistry would be
// a good choice to get metrics working
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithTracing enables tracing. By default, spans are submitted to a HTTP(s) endpoint using OTLP. This can be configured
// using the OTEL_EXPORTER_OTLP_* env vars documented in the README for [go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp]
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout. This also requires tracing to enabled separately. This is mostly useful for debugging
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown. The default is 30 seconds
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}
