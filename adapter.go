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

	"github.com/blinklabs-io/vigil/database"
	"github.com/blinklabs-io/vigil/database/models"
	"github.com/blinklabs-io/vigil/ledger"
	"github.com/blinklabs-io/vigil/risk"
)

// The methods below implement api.VigilNode by delegating to the node's
// governance ledger and risk service.

func (n *Node) SubmitProposal(
	targetAddress string,
	description string,
	evidenceRef string,
	proposer string,
) (*models.Proposal, error) {
	return n.ledger.SubmitProposal(
		targetAddress,
		description,
		evidenceRef,
		proposer,
	)
}

func (n *Node) GetProposal(proposalId uint) (*models.Proposal, error) {
	return n.ledger.GetProposal(proposalId)
}

func (n *Node) GetProposals(
	targetAddress string,
	status *uint8,
) ([]models.Proposal, error) {
	return n.ledger.GetProposals(targetAddress, status)
}

func (n *Node) CastVote(
	proposalId uint,
	voter string,
	support bool,
	tokensStaked uint64,
) (*models.Vote, error) {
	return n.ledger.CastVote(proposalId, voter, support, tokensStaked)
}

func (n *Node) ExecuteProposal(
	proposalId uint,
	caller string,
) (*models.Proposal, error) {
	return n.ledger.ExecuteProposal(proposalId, caller)
}

func (n *Node) CreditTokens(
	address string,
	amount uint64,
) (*models.TokenBalance, error) {
	return n.ledger.CreditTokens(address, amount)
}

func (n *Node) GetThreatReport(
	address string,
) (*ledger.ThreatReport, error) {
	return n.ledger.GetThreatReport(address)
}

func (n *Node) GetVoterStats(address string) (*ledger.VoterStats, error) {
	return n.ledger.GetVoterStats(address)
}

func (n *Node) AssessTransaction(
	ctx context.Context,
	tx risk.CandidateTx,
) (*risk.Result, error) {
	return n.riskService.AssessTransaction(ctx, tx)
}

func (n *Node) AssessmentStats() (*database.AssessmentStats, error) {
	return n.riskService.Stats()
}

// ledgerTrustSource adapts the governance ledger to the risk service's
// trust source interface
type ledgerTrustSource struct {
	ledger *ledger.Ledger
}

func (s ledgerTrustSource) TrustState(
	address string,
) (risk.TrustSnapshot, error) {
	snapshot, err := s.ledger.TrustState(address)
	if err != nil {
		return risk.TrustSnapshot{}, err
	}
	return risk.TrustSnapshot{
		Known:           snapshot.Known,
		ScamScore:       snapshot.ScamScore,
		IsConfirmedScam: snapshot.IsConfirmedScam,
	}, nil
}

func (s ledgerTrustSource) HasActiveProposal(
	address string,
) (bool, error) {
	return s.ledger.HasActiveProposal(address)
}
