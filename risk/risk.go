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

// Package risk implements the risk fusion engine: it merges a
// probabilistic ML signal with governance trust state into a single
// actionable score and band. The engine itself is a pure function over
// its inputs; it owns no persistent state and no clock.
package risk

import (
	"errors"
	"strings"
)

// Label is the categorical output of the ML collaborator
type Label string

const (
	LabelFraud      Label = "Fraud"
	LabelSuspicious Label = "Suspicious"
	LabelNonFraud   Label = "Non-Fraud"
)

var ErrUnknownLabel = errors.New("unknown classifier label")

// ParseLabel normalizes a classifier label string
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fraud":
		return LabelFraud, nil
	case "suspicious":
		return LabelSuspicious, nil
	case "non-fraud", "nonfraud", "safe":
		return LabelNonFraud, nil
	default:
		return "", ErrUnknownLabel
	}
}

// Band is the actionable risk category for a combined score
type Band string

const (
	BandSafe       Band = "safe"
	BandSuspicious Band = "suspicious"
	BandBlocked    Band = "blocked"
)

// Base ML risk per classifier label
const (
	baseRiskFraud      = 0.85
	baseRiskSuspicious = 0.50
	baseRiskNonFraud   = 0.10
)

// newWalletCap bounds the ML risk for brand-new addresses with no
// governance evidence: a blank wallet cannot have earned a fraud label
// from real behavior yet
const newWalletCap = 0.45

// Governance boost terms
const (
	maxConfirmedBoost   = 0.5
	underReviewBoost    = 0.15
	confirmedBoostScale = 0.5
)

// Band thresholds on the combined risk
const (
	blockedThreshold    = 0.7
	suspiciousThreshold = 0.3
)

// TrustSnapshot is the trust registry state passed to the engine. Known
// is false when the registry has no record for the address.
type TrustSnapshot struct {
	Known           bool
	ScamScore       int
	IsConfirmedScam bool
}

// Input holds everything the fusion engine needs. HasActiveProposal and
// NewAddress are evaluated by the caller, not derived internally, so the
// engine stays deterministic and trivially unit-testable.
type Input struct {
	// Label is the classifier output for the candidate transaction
	Label Label
	// Trust is the registry snapshot for the destination address
	Trust TrustSnapshot
	// HasActiveProposal is true when an unresolved proposal targets the
	// destination address
	HasActiveProposal bool
	// NewAddress is true when the destination has no prior on-chain
	// activity (zero balance and zero transaction count)
	NewAddress bool
}

// Assessment is the fusion engine output
type Assessment struct {
	// MlRisk is the base probability after any new-wallet dampening
	MlRisk float64 `json:"mlRisk"`
	// Boost is the governance contribution
	Boost float64 `json:"boost"`
	// CombinedRisk is min(1, MlRisk+Boost)
	CombinedRisk float64 `json:"combinedRisk"`
	// Band is the actionable category for CombinedRisk
	Band Band `json:"band"`
}

// Assess combines an ML label with governance trust state. Deterministic
// for identical inputs; defined for every label (unknown labels are
// treated as Suspicious by callers via ParseLabel before reaching here).
func Assess(input Input) Assessment {
	// Base ML risk from the classifier label
	var mlRisk float64
	switch input.Label {
	case LabelFraud:
		mlRisk = baseRiskFraud
	case LabelSuspicious:
		mlRisk = baseRiskSuspicious
	default:
		mlRisk = baseRiskNonFraud
	}
	// False-positive dampening: an aggressive verdict on a blank wallet
	// with no governance evidence is low-confidence
	if input.NewAddress &&
		!input.Trust.Known &&
		!input.HasActiveProposal &&
		mlRisk > newWalletCap {
		mlRisk = newWalletCap
	}
	// Governance boost
	var boost float64
	switch {
	case input.Trust.IsConfirmedScam:
		boost = float64(input.Trust.ScamScore) / 100.0 * confirmedBoostScale
		if boost > maxConfirmedBoost {
			boost = maxConfirmedBoost
		}
	case input.HasActiveProposal:
		boost = underReviewBoost
	}
	combined := mlRisk + boost
	if combined > 1.0 {
		combined = 1.0
	}
	return Assessment{
		MlRisk:       mlRisk,
		Boost:        boost,
		CombinedRisk: combined,
		Band:         BandFor(combined),
	}
}

// BandFor maps a combined risk score to its band
func BandFor(combinedRisk float64) Band {
	switch {
	case combinedRisk > blockedThreshold:
		return BandBlocked
	case combinedRisk > suspiciousThreshold:
		return BandSuspicious
	default:
		return BandSafe
	}
}
