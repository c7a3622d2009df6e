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

package risk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/blinklabs-io/vigil/database"
	"github.com/blinklabs-io/vigil/database/models"
)

// ErrCollaboratorUnavailable indicates the ML collaborator could not be
// reached and no fallback label is configured
var ErrCollaboratorUnavailable = errors.New("ML collaborator unavailable")

// Predictor is the ML collaborator interface consumed by the service
type Predictor interface {
	Predict(ctx context.Context, request PredictRequest) (Label, error)
}

// TrustSource reads authoritative trust state from the governance ledger
type TrustSource interface {
	TrustState(address string) (TrustSnapshot, error)
	HasActiveProposal(address string) (bool, error)
}

// MirrorSource reads trust state from an eventually-consistent cache. The
// second return value reports whether the cache is within its staleness
// bound; callers must fall back to the authoritative source when it is
// not, so a since-confirmed scam is never treated as clean beyond the
// bound.
type MirrorSource interface {
	TrustState(address string) (TrustSnapshot, bool, error)
}

// CandidateTx describes a transaction to be scored. Destination activity
// fields are supplied by the wallet collaborator; the service does not
// derive them.
type CandidateTx struct {
	FromAddress           string  `json:"fromAddress"`
	ToAddress             string  `json:"toAddress"`
	Value                 float64 `json:"value"`
	GasPrice              float64 `json:"gasPrice"`
	IsContractInteraction bool    `json:"isContractInteraction"`
	// DestinationBalance and DestinationTxCount describe the destination
	// address's prior on-chain activity
	DestinationBalance float64 `json:"destinationBalance"`
	DestinationTxCount uint64  `json:"destinationTxCount"`
}

// NewAddress returns true when the destination has no prior on-chain
// activity
func (t CandidateTx) NewAddress() bool {
	return t.DestinationBalance == 0 && t.DestinationTxCount == 0
}

// Result is the service-level assessment outcome
type Result struct {
	Assessment
	// Label is the classifier label used (the fallback when degraded)
	Label Label `json:"label"`
	// Degraded is true when the ML collaborator was unreachable and the
	// configured fallback label was used instead
	Degraded bool `json:"degraded"`
	// FromMirror is true when trust state came from the mirror rather
	// than the authoritative ledger
	FromMirror bool `json:"fromMirror"`
}

// ServiceConfig describes the risk service configuration
type ServiceConfig struct {
	Logger    *slog.Logger
	Predictor Predictor
	Ledger    TrustSource
	// Mirror is optional; when nil (or stale) trust reads go straight to
	// the ledger
	Mirror MirrorSource
	// Database is optional; when set every assessment is persisted for
	// the stats endpoint
	Database *database.Database
	// FallbackLabel is used when the ML collaborator is unreachable. An
	// empty value makes ML outages a hard error.
	FallbackLabel Label
}

// Service binds the pure fusion engine to its collaborators: the ML
// classifier, the trust registry (via mirror with ledger fallback), and
// assessment persistence. Risk scoring must answer every request, so
// collaborator failures degrade explicitly rather than propagate.
type Service struct {
	config ServiceConfig
	logger *slog.Logger
}

// NewService creates a new risk service
func NewService(cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{
		config: cfg,
		logger: cfg.Logger.With("component", "risk"),
	}
}

// AssessTransaction scores a candidate transaction
func (s *Service) AssessTransaction(
	ctx context.Context,
	tx CandidateTx,
) (*Result, error) {
	result := &Result{}
	// Classifier label, with explicit degradation on outage
	label, err := s.config.Predictor.Predict(ctx, PredictRequest{
		FromAddress:           tx.FromAddress,
		ToAddress:             tx.ToAddress,
		TransactionValue:      tx.Value,
		GasPrice:              tx.GasPrice,
		IsContractInteraction: tx.IsContractInteraction,
		AccHolder:             tx.ToAddress,
	})
	if err != nil {
		if s.config.FallbackLabel == "" {
			return nil, fmt.Errorf(
				"%w: %w",
				ErrCollaboratorUnavailable,
				err,
			)
		}
		s.logger.Warn(
			"ML collaborator unavailable, using fallback label",
			"fallback", string(s.config.FallbackLabel),
			"error", err,
		)
		label = s.config.FallbackLabel
		result.Degraded = true
	}
	result.Label = label
	// Trust state via mirror when fresh, ledger otherwise
	trust, fromMirror, err := s.trustState(tx.ToAddress)
	if err != nil {
		return nil, err
	}
	result.FromMirror = fromMirror
	hasActive, err := s.config.Ledger.HasActiveProposal(tx.ToAddress)
	if err != nil {
		return nil, err
	}
	result.Assessment = Assess(Input{
		Label:             label,
		Trust:             trust,
		HasActiveProposal: hasActive,
		NewAddress:        tx.NewAddress(),
	})
	if err := s.persist(tx, result); err != nil {
		// Persistence is for stats only; scoring already succeeded
		s.logger.Warn("failed to persist assessment", "error", err)
	}
	return result, nil
}

// Stats returns per-band counts of persisted assessments
func (s *Service) Stats() (*database.AssessmentStats, error) {
	if s.config.Database == nil {
		return &database.AssessmentStats{}, nil
	}
	return s.config.Database.GetAssessmentStats(nil)
}

func (s *Service) trustState(address string) (TrustSnapshot, bool, error) {
	if s.config.Mirror != nil {
		trust, fresh, err := s.config.Mirror.TrustState(address)
		if err == nil && fresh {
			return trust, true, nil
		}
		if err != nil {
			s.logger.Warn(
				"mirror read failed, falling back to ledger",
				"error", err,
			)
		} else {
			s.logger.Debug(
				"mirror beyond staleness bound, falling back to ledger",
			)
		}
	}
	trust, err := s.config.Ledger.TrustState(address)
	return trust, false, err
}

func (s *Service) persist(tx CandidateTx, result *Result) error {
	if s.config.Database == nil {
		return nil
	}
	return s.config.Database.CreateAssessment(
		&models.Assessment{
			FromAddress:  tx.FromAddress,
			ToAddress:    tx.ToAddress,
			Value:        tx.Value,
			MlLabel:      string(result.Label),
			MlDegraded:   result.Degraded,
			CombinedRisk: result.CombinedRisk,
			Band:         string(result.Band),
		},
		nil,
	)
}
