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

// Package ledger implements the governance state machine: proposal
// lifecycle, quadratic vote tallying, token escrow, reputation updates,
// and the trust registry. All mutating operations are serialized into a
// single total order and applied atomically.
package ledger

import (
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/blinklabs-io/vigil/database"
	"github.com/blinklabs-io/vigil/event"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultVotingWindow is the production voting window for new proposals
const DefaultVotingWindow = 72 * time.Hour

// ScamScoreStep is the trust score increment applied per passed proposal
const ScamScoreStep = 25

// ApprovalThresholdPercent is the share of total voting power the
// for-side needs for a proposal to pass
const ApprovalThresholdPercent = 60

var addressRegexp = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// LedgerConfig describes the ledger configuration
type LedgerConfig struct {
	Database     *database.Database
	EventBus     *event.EventBus
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	// VotingWindow overrides the default proposal voting window. Intended
	// for test environments
	VotingWindow time.Duration
	// Now overrides the clock. Intended for test environments
	Now func() time.Time
}

// Ledger owns the proposal and vote lifecycles and is the only writer of
// voter profiles and trust records. A single mutex serializes mutating
// operations; reads go straight to the database and do not block writers.
type Ledger struct {
	config  LedgerConfig
	logger  *slog.Logger
	db      *database.Database
	metrics *ledgerMetrics
	mutex   sync.Mutex
}

// New creates a new governance ledger
func New(cfg LedgerConfig) *Ledger {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.VotingWindow <= 0 {
		cfg.VotingWindow = DefaultVotingWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	l := &Ledger{
		config: cfg,
		logger: cfg.Logger.With("component", "ledger"),
		db:     cfg.Database,
	}
	if cfg.PromRegistry != nil {
		l.initMetrics(cfg.PromRegistry)
	}
	return l
}

// NormalizeAddress lowercases a well-formed address for storage and lookup
func NormalizeAddress(address string) string {
	return strings.ToLower(address)
}

// ValidAddress returns true if the given string is a well-formed
// 0x-prefixed 20-byte hex address
func ValidAddress(address string) bool {
	return addressRegexp.MatchString(address)
}

func (l *Ledger) now() time.Time {
	return l.config.Now()
}

func (l *Ledger) publishSettlement(evt event.SettlementEvent) {
	if l.config.EventBus == nil {
		return
	}
	l.config.EventBus.Publish(
		event.SettlementEventType,
		event.NewEvent(event.SettlementEventType, evt),
	)
}
