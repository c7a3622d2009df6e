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

// Package mirror maintains an eventually-consistent read cache of the
// trust registry, fed by settlement events. Reads never touch the ledger;
// instead each read reports whether the cache is within its staleness
// bound so callers can fall back to the authoritative source themselves.
package mirror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blinklabs-io/vigil/event"
	"github.com/blinklabs-io/vigil/ledger"
	"github.com/blinklabs-io/vigil/risk"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultStalenessBound is the maximum age of the consumer heartbeat
	// before reads report the cache as stale
	DefaultStalenessBound = 3 * time.Minute

	// heartbeatInterval refreshes the liveness marker while the consumer
	// loop is healthy but idle
	heartbeatInterval = 30 * time.Second

	trustKeyPrefix = "trust_"
)

// ErrStopped is returned by reads after the mirror has been shut down
var ErrStopped = errors.New("mirror stopped")

// MirrorConfig describes the mirror configuration
type MirrorConfig struct {
	Logger       *slog.Logger
	EventBus     *event.EventBus
	PromRegistry prometheus.Registerer
	// DataDir is the parent directory for the mirror store. Empty means
	// in-memory.
	DataDir string
	// StalenessBound overrides DefaultStalenessBound when non-zero
	StalenessBound time.Duration
}

// trustEntry is the stored cache record for one address
type trustEntry struct {
	UpdatedAt       time.Time `json:"updatedAt"`
	ScamScore       int       `json:"scamScore"`
	LastProposalID  uint      `json:"lastProposalId"`
	IsConfirmedScam bool      `json:"isConfirmedScam"`
}

// Mirror consumes settlement events and applies them to a badger store.
// Each event carries the absolute post-settlement trust state, so applying
// the same event twice (replay after restart) converges to the same cache
// contents.
type Mirror struct {
	config    MirrorConfig
	logger    *slog.Logger
	db        *badger.DB
	metrics   *mirrorMetrics
	subId     event.EventSubscriberId
	eventCh   <-chan event.Event
	stopCh    chan struct{}
	onApplied func(event.SettlementEvent)
	wg        sync.WaitGroup
	heartbeat atomic.Int64
	stopped   atomic.Bool
}

// New creates a new Mirror and opens its backing store
func New(cfg MirrorConfig) (*Mirror, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.StalenessBound <= 0 {
		cfg.StalenessBound = DefaultStalenessBound
	}
	m := &Mirror{
		config: cfg,
		logger: cfg.Logger.With("component", "mirror"),
		stopCh: make(chan struct{}),
	}
	var badgerOpts badger.Options
	if cfg.DataDir == "" {
		badgerOpts = badger.DefaultOptions("").
			WithLogger(NewBadgerLogger(cfg.Logger)).
			WithLoggingLevel(badger.WARNING).
			WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(
			filepath.Join(cfg.DataDir, "mirror"),
		).
			WithLogger(NewBadgerLogger(cfg.Logger)).
			WithLoggingLevel(badger.WARNING)
	}
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open mirror store: %w", err)
	}
	m.db = db
	if cfg.PromRegistry != nil {
		m.metrics = registerMirrorMetrics(cfg.PromRegistry)
	}
	return m, nil
}

// Start subscribes to settlement events and launches the consumer loop
func (m *Mirror) Start() error {
	if m.config.EventBus == nil {
		return errors.New("mirror requires an event bus")
	}
	m.subId, m.eventCh = m.config.EventBus.Subscribe(
		event.SettlementEventType,
	)
	m.heartbeat.Store(time.Now().UnixNano())
	m.wg.Add(1)
	go m.consumerLoop()
	return nil
}

// Stop shuts down the consumer loop and closes the backing store
func (m *Mirror) Stop() error {
	if !m.stopped.CompareAndSwap(false, true) {
		return nil
	}
	if m.config.EventBus != nil && m.eventCh != nil {
		m.config.EventBus.Unsubscribe(event.SettlementEventType, m.subId)
	}
	close(m.stopCh)
	m.wg.Wait()
	return m.db.Close()
}

// TrustState returns the cached trust snapshot for an address. The second
// return value is false when the consumer heartbeat has fallen outside the
// staleness bound; the snapshot is still returned so callers can choose to
// use it anyway.
func (m *Mirror) TrustState(address string) (risk.TrustSnapshot, bool, error) {
	if m.stopped.Load() {
		return risk.TrustSnapshot{}, false, ErrStopped
	}
	var snapshot risk.TrustSnapshot
	err := m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(trustKey(address))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				// Unknown to the cache, which is a valid answer
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var entry trustEntry
			if err := json.Unmarshal(val, &entry); err != nil {
				return fmt.Errorf("decode mirror entry: %w", err)
			}
			snapshot = risk.TrustSnapshot{
				Known:           true,
				ScamScore:       entry.ScamScore,
				IsConfirmedScam: entry.IsConfirmedScam,
			}
			return nil
		})
	})
	if err != nil {
		return risk.TrustSnapshot{}, false, err
	}
	return snapshot, m.Fresh(), nil
}

// Fresh reports whether the consumer heartbeat is within the staleness
// bound
func (m *Mirror) Fresh() bool {
	last := time.Unix(0, m.heartbeat.Load())
	return time.Since(last) <= m.config.StalenessBound
}

func (m *Mirror) consumerLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			// Idle but alive
			m.beat()
		case evt, ok := <-m.eventCh:
			if !ok {
				return
			}
			settlement, ok := evt.Data.(event.SettlementEvent)
			if !ok {
				m.logger.Warn(
					"unexpected event payload",
					"type", string(evt.Type),
				)
				continue
			}
			if err := m.apply(settlement); err != nil {
				m.logger.Error(
					"failed to apply settlement",
					"proposal_id", settlement.ProposalID,
					"error", err,
				)
				continue
			}
			m.beat()
			if m.onApplied != nil {
				m.onApplied(settlement)
			}
		}
	}
}

// apply upserts the post-settlement trust state for the target address.
// The event carries absolute values, so replays are harmless.
func (m *Mirror) apply(settlement event.SettlementEvent) error {
	entry := trustEntry{
		ScamScore:       settlement.NewScamScore,
		IsConfirmedScam: settlement.ConfirmedScam,
		LastProposalID:  settlement.ProposalID,
		UpdatedAt:       settlement.Timestamp,
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(trustKey(settlement.TargetAddress), payload)
	})
	if err != nil {
		return err
	}
	if m.metrics != nil {
		m.metrics.settlementsApplied.Inc()
		m.metrics.lastAppliedProposal.Set(float64(settlement.ProposalID))
	}
	m.logger.Debug(
		"applied settlement",
		"proposal_id", settlement.ProposalID,
		"target", settlement.TargetAddress,
		"scam_score", settlement.NewScamScore,
		"confirmed", settlement.ConfirmedScam,
	)
	return nil
}

func (m *Mirror) beat() {
	m.heartbeat.Store(time.Now().UnixNano())
}

// trustKey uses the ledger-normalized address form so reads with any
// casing hit the entries written from settlement events
func trustKey(address string) []byte {
	return []byte(trustKeyPrefix + ledger.NormalizeAddress(address))
}
