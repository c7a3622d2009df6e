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

package api

import (
	"context"

	"github.com/blinklabs-io/vigil/database"
	"github.com/blinklabs-io/vigil/database/models"
	"github.com/blinklabs-io/vigil/ledger"
	"github.com/blinklabs-io/vigil/risk"
)

// VigilNode is the interface the API server uses to reach the node's
// governance ledger, oracle, and risk service. This decouples the HTTP
// server from the concrete Node struct and enables testing with mock
// implementations.
type VigilNode interface {
	// SubmitProposal opens a new scam proposal against the target address
	SubmitProposal(
		targetAddress string,
		description string,
		evidenceRef string,
		proposer string,
	) (*models.Proposal, error)

	// GetProposal returns a proposal by id
	GetProposal(proposalId uint) (*models.Proposal, error)

	// GetProposals returns proposals, optionally filtered by target and
	// status
	GetProposals(
		targetAddress string,
		status *uint8,
	) ([]models.Proposal, error)

	// CastVote records a vote on an active proposal
	CastVote(
		proposalId uint,
		voter string,
		support bool,
		tokensStaked uint64,
	) (*models.Vote, error)

	// ExecuteProposal settles a proposal at or after its deadline
	ExecuteProposal(proposalId uint, caller string) (*models.Proposal, error)

	// CreditTokens adds spendable governance tokens to an address
	CreditTokens(address string, amount uint64) (*models.TokenBalance, error)

	// GetThreatReport returns the full oracle report for an address
	GetThreatReport(address string) (*ledger.ThreatReport, error)

	// GetVoterStats returns the reputation counters for a voter
	GetVoterStats(address string) (*ledger.VoterStats, error)

	// AssessTransaction scores a candidate transaction through the risk
	// fusion engine
	AssessTransaction(
		ctx context.Context,
		tx risk.CandidateTx,
	) (*risk.Result, error)

	// AssessmentStats returns per-band counts of persisted assessments
	AssessmentStats() (*database.AssessmentStats, error)
}
