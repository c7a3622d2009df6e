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

// Package vigil implements a token-weighted DAO node that adjudicates
// scam addresses through quadratic voting and serves a public threat
// oracle plus a transaction risk fusion engine.
package vigil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/vigil/api"
	"github.com/blinklabs-io/vigil/database"
	"github.com/blinklabs-io/vigil/event"
	"github.com/blinklabs-io/vigil/ledger"
	"github.com/blinklabs-io/vigil/mirror"
	"github.com/blinklabs-io/vigil/risk"
)

type Node struct {
	eventBus      *event.EventBus
	db            *database.Database
	ledger        *ledger.Ledger
	mirror        *mirror.Mirror
	riskService   *risk.Service
	api           *api.Api
	cancelCtx     context.CancelFunc
	shutdownFuncs []func(context.Context) error
	config        Config
	done          chan struct{}
	shutdownOnce  sync.Once
}

func New(cfg Config) (*Node, error) {
	n := &Node{
		config:   cfg,
		eventBus: event.NewEventBus(cfg.promRegistry, cfg.logger),
		done:     make(chan struct{}),
	}
	if err := n.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return n, nil
}

func (n *Node) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	n.cancelCtx = cancel
	// Configure tracing
	if n.config.tracing {
		if err := n.setupTracing(); err != nil {
			return err
		}
	}
	// Load database
	db, err := database.New(&database.Config{
		DataDir:      n.config.dataDir,
		Logger:       n.config.logger,
		PromRegistry: n.config.promRegistry,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	n.db = db
	// Load governance ledger
	n.ledger = ledger.New(ledger.LedgerConfig{
		Database:     n.db,
		EventBus:     n.eventBus,
		Logger:       n.config.logger,
		PromRegistry: n.config.promRegistry,
		VotingWindow: n.config.votingWindow,
	})
	// Start trust mirror
	n.mirror, err = mirror.New(mirror.MirrorConfig{
		Logger:         n.config.logger,
		EventBus:       n.eventBus,
		PromRegistry:   n.config.promRegistry,
		DataDir:        n.config.dataDir,
		StalenessBound: n.config.mirrorStalenessBound,
	})
	if err != nil {
		return fmt.Errorf("failed to open mirror: %w", err)
	}
	if err := n.mirror.Start(); err != nil {
		return fmt.Errorf("failed to start mirror: %w", err)
	}
	// Configure risk service. With no ML endpoint configured every predict
	// call fails immediately and the fallback label applies.
	n.riskService = risk.NewService(risk.ServiceConfig{
		Logger: n.config.logger,
		Predictor: risk.NewClient(risk.ClientConfig{
			Logger:   n.config.logger,
			Endpoint: n.config.mlEndpoint,
			Timeout:  n.config.mlTimeout,
		}),
		Ledger:        ledgerTrustSource{ledger: n.ledger},
		Mirror:        n.mirror,
		Database:      n.db,
		FallbackLabel: risk.Label(n.config.mlFallbackLabel),
	})
	// Start API listener
	n.api = api.New(
		api.ApiConfig{
			ListenAddress: n.config.apiListenAddress,
		},
		n,
		n.config.logger,
	)
	if err := n.api.Start(ctx); err != nil {
		return err
	}

	// Wait for shutdown signal
	<-n.done
	return nil
}

func (n *Node) Stop() error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown()
	})
	return err
}

func (n *Node) shutdown() error {
	// Create shutdown context with timeout (default 30s if not configured)
	shutdownTimeout := 30 * time.Second
	if n.config.shutdownTimeout > 0 {
		shutdownTimeout = n.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	n.config.logger.Debug("starting graceful shutdown")

	// Phase 1: Stop accepting new work
	n.config.logger.Debug("shutdown phase 1: stopping new work")

	if n.api != nil {
		if stopErr := n.api.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("api shutdown: %w", stopErr))
		}
	}

	// Phase 2: Drain event consumers
	n.config.logger.Debug("shutdown phase 2: draining consumers")

	if n.mirror != nil {
		if stopErr := n.mirror.Stop(); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("mirror shutdown: %w", stopErr))
		}
	}

	if n.eventBus != nil {
		n.eventBus.Stop()
	}

	// Phase 3: Flush state and close database
	n.config.logger.Debug("shutdown phase 3: flushing state")

	if n.db != nil {
		if closeErr := n.db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("database close: %w", closeErr))
		}
	}

	// Phase 4: Cleanup resources
	n.config.logger.Debug("shutdown phase 4: cleanup resources")

	// Call registered shutdown functions
	for _, fn := range n.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	n.shutdownFuncs = nil

	if n.cancelCtx != nil {
		n.cancelCtx()
	}

	n.config.logger.Debug("graceful shutdown complete")
	close(n.done)
	return err
}
