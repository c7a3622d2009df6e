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
	"fmt"

	"github.com/blinklabs-io/vigil/database/models"
	"gorm.io/gorm"
)

// SubmitProposal creates a new proposal against the target address in the
// Active state with a fixed voting deadline. Multiple concurrent proposals
// against the same target are permitted and settle independently.
func (l *Ledger) SubmitProposal(
	targetAddress string,
	description string,
	evidenceRef string,
	proposer string,
) (*models.Proposal, error) {
	if !ValidAddress(targetAddress) {
		return nil, ErrInvalidTarget
	}
	if !ValidAddress(proposer) {
		return nil, ErrInvalidProposer
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	now := l.now()
	proposal := &models.Proposal{
		TargetAddress: NormalizeAddress(targetAddress),
		Description:   description,
		EvidenceRef:   evidenceRef,
		Proposer:      NormalizeAddress(proposer),
		CreatedAt:     now,
		Deadline:      now.Add(l.config.VotingWindow),
		Status:        models.ProposalStatusActive,
	}
	err := l.db.Transaction(func(txn *gorm.DB) error {
		return l.db.CreateProposal(proposal, txn)
	})
	if err != nil {
		return nil, fmt.Errorf("submit proposal: %w", err)
	}
	if l.metrics != nil {
		l.metrics.proposalsSubmitted.Inc()
	}
	l.logger.Info(
		"proposal submitted",
		"proposal_id", proposal.ID,
		"target", proposal.TargetAddress,
		"proposer", proposal.Proposer,
		"deadline", proposal.Deadline,
	)
	return proposal, nil
}

// GetProposal returns a proposal by id
func (l *Ledger) GetProposal(proposalId uint) (*models.Proposal, error) {
	return l.db.GetProposal(proposalId, nil)
}

// GetProposals returns proposals, optionally filtered by status and
// target address
func (l *Ledger) GetProposals(
	targetAddress string,
	status *uint8,
) ([]models.Proposal, error) {
	if targetAddress != "" {
		return l.db.GetProposalsByTarget(
			NormalizeAddress(targetAddress),
			status,
			nil,
		)
	}
	return l.db.GetProposals(status, nil)
}

// HasActiveProposal returns true if any unsettled proposal targets the
// given address
func (l *Ledger) HasActiveProposal(targetAddress string) (bool, error) {
	return l.db.HasActiveProposalForTarget(
		NormalizeAddress(targetAddress),
		nil,
	)
}

// CreditTokens adds spendable governance tokens to an address. Token
// transfer mechanics beyond escrow live outside this node; this exists to
// seed balances in dev and test environments.
func (l *Ledger) CreditTokens(
	address string,
	amount uint64,
) (*models.TokenBalance, error) {
	if !ValidAddress(address) {
		return nil, ErrInvalidVoter
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	var balance *models.TokenBalance
	err := l.db.Transaction(func(txn *gorm.DB) error {
		var err error
		balance, err = l.db.CreditTokens(
			NormalizeAddress(address),
			amount,
			txn,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("credit tokens: %w", err)
	}
	return balance, nil
}
