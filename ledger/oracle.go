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

package ledger

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/vigil/database/models"
)

// DAOConfidence holds the aggregate voting data for an address across all
// settled proposals targeting it
type DAOConfidence struct {
	ForPower          uint64 `json:"forPower"`
	AgainstPower      uint64 `json:"againstPower"`
	TotalVoters       uint64 `json:"totalVoters"`
	ConfidencePercent uint64 `json:"confidencePercent"`
}

// VoterStats is the read model for a voter's reputation
type VoterStats struct {
	Accuracy      int    `json:"accuracy"`
	Participation uint64 `json:"participation"`
}

// TrustSnapshot is a point-in-time view of the trust registry for an
// address
type TrustSnapshot struct {
	Known           bool `json:"known"`
	ScamScore       int  `json:"scamScore"`
	IsConfirmedScam bool `json:"isConfirmedScam"`
}

// ThreatReport is the full oracle response for an address
type ThreatReport struct {
	Address           string   `json:"address"`
	Score             int      `json:"score"`
	RiskLabel         string   `json:"riskLabel"`
	RiskColor         string   `json:"riskColor"`
	IsConfirmedScam   bool     `json:"isConfirmedScam"`
	ForPower          uint64   `json:"forPower"`
	AgainstPower      uint64   `json:"againstPower"`
	TotalVoters       uint64   `json:"totalVoters"`
	ConfidencePercent uint64   `json:"confidencePercent"`
	Explanation       []string `json:"explanation"`
}

// ThreatScore returns the trust registry score (0-100) for an address.
// Unknown addresses score zero.
func (l *Ledger) ThreatScore(address string) (int, error) {
	record, err := l.db.GetTrustRecord(NormalizeAddress(address), nil)
	if err != nil {
		if errors.Is(err, models.ErrTrustRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return record.ScamScore, nil
}

// IsConfirmedScam returns true if the address has been confirmed as a
// scam by a passed proposal
func (l *Ledger) IsConfirmedScam(address string) (bool, error) {
	record, err := l.db.GetTrustRecord(NormalizeAddress(address), nil)
	if err != nil {
		if errors.Is(err, models.ErrTrustRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return record.IsConfirmedScam, nil
}

// TrustState returns the trust registry snapshot for an address
func (l *Ledger) TrustState(address string) (TrustSnapshot, error) {
	record, err := l.db.GetTrustRecord(NormalizeAddress(address), nil)
	if err != nil {
		if errors.Is(err, models.ErrTrustRecordNotFound) {
			return TrustSnapshot{}, nil
		}
		return TrustSnapshot{}, err
	}
	return TrustSnapshot{
		Known:           true,
		ScamScore:       record.ScamScore,
		IsConfirmedScam: record.IsConfirmedScam,
	}, nil
}

// GetDAOConfidence aggregates final voting power and voter counts across
// all settled proposals targeting the address
func (l *Ledger) GetDAOConfidence(address string) (*DAOConfidence, error) {
	address = NormalizeAddress(address)
	executed := uint8(models.ProposalStatusExecuted)
	proposals, err := l.db.GetProposalsByTarget(address, &executed, nil)
	if err != nil {
		return nil, err
	}
	confidence := &DAOConfidence{}
	for _, proposal := range proposals {
		confidence.ForPower += proposal.ForPower
		confidence.AgainstPower += proposal.AgainstPower
		voters, err := l.db.CountVotesByProposal(proposal.ID, nil)
		if err != nil {
			return nil, err
		}
		confidence.TotalVoters += uint64(voters) // #nosec G115
	}
	total := confidence.ForPower + confidence.AgainstPower
	if total > 0 {
		confidence.ConfidencePercent = confidence.ForPower * 100 / total
	}
	return confidence, nil
}

// GetVoterStats returns the reputation counters for a voter. Voters with
// no profile yet report zeroes.
func (l *Ledger) GetVoterStats(address string) (*VoterStats, error) {
	profile, err := l.db.GetVoterProfile(NormalizeAddress(address), nil)
	if err != nil {
		if errors.Is(err, models.ErrVoterProfileNotFound) {
			return &VoterStats{}, nil
		}
		return nil, err
	}
	return &VoterStats{
		Accuracy:      profile.Accuracy,
		Participation: profile.Participation,
	}, nil
}

// GetThreatReport builds the full oracle report for an address
func (l *Ledger) GetThreatReport(address string) (*ThreatReport, error) {
	address = NormalizeAddress(address)
	trust, err := l.TrustState(address)
	if err != nil {
		return nil, err
	}
	confidence, err := l.GetDAOConfidence(address)
	if err != nil {
		return nil, err
	}
	report := &ThreatReport{
		Address:           address,
		Score:             trust.ScamScore,
		RiskLabel:         RiskLabelFor(trust.ScamScore),
		RiskColor:         RiskColorFor(trust.ScamScore),
		IsConfirmedScam:   trust.IsConfirmedScam,
		ForPower:          confidence.ForPower,
		AgainstPower:      confidence.AgainstPower,
		TotalVoters:       confidence.TotalVoters,
		ConfidencePercent: confidence.ConfidencePercent,
	}
	report.Explanation = buildExplanation(report)
	return report, nil
}

// RiskLabelFor returns the human-readable risk category for a threat score
func RiskLabelFor(score int) string {
	switch {
	case score >= 75:
		return "CRITICAL"
	case score >= 50:
		return "HIGH RISK"
	case score >= 20:
		return "UNDER REVIEW"
	default:
		return "CLEAN"
	}
}

// RiskColorFor returns the hex colour code for a threat score
func RiskColorFor(score int) string {
	switch {
	case score >= 75:
		return "#DC2626" // red
	case score >= 50:
		return "#D97706" // amber
	case score >= 20:
		return "#2563EB" // blue
	default:
		return "#059669" // green
	}
}

// buildExplanation creates a human-readable summary of the oracle result
func buildExplanation(report *ThreatReport) []string {
	var lines []string
	if report.IsConfirmedScam {
		lines = append(
			lines,
			"community confirmed this address as a scam",
		)
	}
	if report.TotalVoters > 0 {
		lines = append(lines, fmt.Sprintf(
			"%d voters reached %d%% consensus",
			report.TotalVoters, report.ConfidencePercent,
		))
	}
	switch {
	case report.Score >= 75:
		lines = append(lines, "threat level CRITICAL, avoid all interaction")
	case report.Score >= 50:
		lines = append(lines, "threat level HIGH, exercise extreme caution")
	case report.Score >= 20:
		lines = append(lines, "address is currently under community review")
	default:
		lines = append(lines, "no threats recorded by the oracle")
	}
	return lines
}
