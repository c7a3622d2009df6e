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

package node

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof" // #nosec G108
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blinklabs-io/vigil"
	"github.com/blinklabs-io/vigil/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Run(cfg *config.Config, logger *slog.Logger) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")

	// Parse duration values
	shutdownTimeout := 30 * time.Second
	if cfg.ShutdownTimeout != "" {
		var err error
		shutdownTimeout, err = time.ParseDuration(cfg.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("invalid shutdown timeout: %w", err)
		}
	}
	var votingWindow time.Duration
	if cfg.VotingWindow != "" {
		var err error
		votingWindow, err = time.ParseDuration(cfg.VotingWindow)
		if err != nil {
			return fmt.Errorf("invalid voting window: %w", err)
		}
	}
	var mirrorStalenessBound time.Duration
	if cfg.MirrorStalenessBound != "" {
		var err error
		mirrorStalenessBound, err = time.ParseDuration(
			cfg.MirrorStalenessBound,
		)
		if err != nil {
			return fmt.Errorf("invalid mirror staleness bound: %w", err)
		}
	}
	var mlTimeout time.Duration
	if cfg.MlTimeout != "" {
		var err error
		mlTimeout, err = time.ParseDuration(cfg.MlTimeout)
		if err != nil {
			return fmt.Errorf("invalid ML timeout: %w", err)
		}
	}

	v, err := vigil.New(
		vigil.NewConfig(
			vigil.WithLogger(logger),
			vigil.WithDatabasePath(cfg.DatabasePath),
			vigil.WithApiListenAddress(
				fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.ApiPort),
			),
			vigil.WithMlEndpoint(cfg.MlEndpoint),
			vigil.WithMlTimeout(mlTimeout),
			vigil.WithMlFallbackLabel(cfg.MlFallbackLabel),
			vigil.WithVotingWindow(votingWindow),
			vigil.WithMirrorStalenessBound(mirrorStalenessBound),
			vigil.WithShutdownTimeout(shutdownTimeout),
			vigil.WithTracing(cfg.Tracing),
			vigil.WithTracingStdout(cfg.TracingStdout),
			// Enable metrics with default prometheus registry
			vigil.WithPrometheusRegistry(prometheus.DefaultRegisterer),
		),
	)
	if err != nil {
		return err
	}
	// Metrics and debug listener
	http.Handle("/metrics", promhttp.Handler())
	logger.Info(
		"serving prometheus metrics on "+fmt.Sprintf(
			"%s:%d",
			cfg.BindAddr,
			cfg.MetricsPort,
		),
		"component",
		"node",
	)
	metricsServer := &http.Server{
		Addr: fmt.Sprintf(
			"%s:%d",
			cfg.BindAddr,
			cfg.MetricsPort,
		),
		ReadHeaderTimeout: 60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			logger.Error(
				fmt.Sprintf("failed to start metrics listener: %s", err),
				"component", "node",
			)
			os.Exit(1)
		}
	}()
	// Wait for interrupt/termination signal
	signalCtx, signalCtxStop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	// Run node in goroutine
	errChan := make(chan error, 1)
	go func() {
		err := v.Run()
		select {
		case errChan <- err:
		case <-signalCtx.Done():
		}
	}()

	// Wait for signal or error
	select {
	case <-signalCtx.Done():
		logger.Info("signal received, initiating graceful shutdown")

		// Shutdown metrics server
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			shutdownTimeout,
		)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}

		// Shutdown node
		if err := v.Stop(); err != nil {
			logger.Error("shutdown errors occurred", "error", err)
			return err
		}
		logger.Info("shutdown complete")
		return nil

	case err := <-errChan:
		if err == nil {
			logger.Info("node stopped")
			// Graceful cleanup
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				shutdownTimeout,
			)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown error", "error", err)
			}
			if err := v.Stop(); err != nil {
				logger.Error("shutdown errors occurred", "error", err)
				return err
			}
			return nil
		}
		logger.Error("node error", "error", err)
		signalCtxStop()

		// Shutdown node resources
		if stopErr := v.Stop(); stopErr != nil {
			logger.Error(
				"shutdown errors occurred during error cleanup",
				"error",
				stopErr,
			)
		}

		// Cleanup on error
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			shutdownTimeout,
		)
		defer cancel()
		if shutdownErr := metricsServer.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Error("metrics server shutdown error", "error", shutdownErr)
		}

		return err
	}
}
