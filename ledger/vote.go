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
	"gorm.io/gorm"
)

// CastVote records a vote on an active proposal. The staked tokens move
// from the voter's spendable balance into proposal-scoped escrow, and the
// vote's power is computed from the stake and the voter's reputation.
// Participation is NOT credited here; it is credited only at settlement,
// so votes on proposals that are later found abusive earn nothing.
func (l *Ledger) CastVote(
	proposalId uint,
	voter string,
	support bool,
	tokensStaked uint64,
) (*models.Vote, error) {
	if !ValidAddress(voter) {
		return nil, ErrInvalidVoter
	}
	if tokensStaked == 0 {
		return nil, ErrInvalidStake
	}
	voter = NormalizeAddress(voter)
	l.mutex.Lock()
	defer l.mutex.Unlock()
	var vote *models.Vote
	err := l.db.Transaction(func(txn *gorm.DB) error {
		proposal, err := l.db.GetProposal(proposalId, txn)
		if err != nil {
			return err
		}
		if !proposal.IsActive() {
			return ErrProposalClosed
		}
		now := l.now()
		if !now.Before(proposal.Deadline) {
			// The deadline closes voting even before anyone calls execute
			return ErrProposalClosed
		}
		if _, err := l.db.GetVote(proposalId, voter, txn); err == nil {
			return ErrDuplicateVote
		} else if !errors.Is(err, models.ErrVoteNotFound) {
			return err
		}
		// Move stake into escrow
		if err := l.db.EscrowTokens(voter, tokensStaked, txn); err != nil {
			if errors.Is(err, models.ErrInsufficientBalance) {
				return ErrInsufficientTokens
			}
			return err
		}
		// Compute power from stake and reputation
		profile, err := l.db.GetOrCreateVoterProfile(voter, txn)
		if err != nil {
			return err
		}
		power := VotingPower(tokensStaked, profile)
		vote = &models.Vote{
			ProposalID: proposalId,
			Voter:      voter,
			Support:    support,
			Staked:     tokensStaked,
			Power:      power,
			CastAt:     now,
		}
		if err := l.db.CreateVote(vote, txn); err != nil {
			return err
		}
		// Accumulate power on the proposal
		if support {
			proposal.ForPower += power
		} else {
			proposal.AgainstPower += power
		}
		return l.db.UpdateProposal(proposal, txn)
	})
	if err != nil {
		if isLedgerError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("cast vote: %w", err)
	}
	if l.metrics != nil {
		l.metrics.votesCast.Inc()
		l.metrics.tokensEscrowed.Add(float64(tokensStaked))
	}
	l.logger.Info(
		"vote cast",
		"proposal_id", proposalId,
		"voter", voter,
		"support", support,
		"staked", tokensStaked,
		"power", vote.Power,
	)
	return vote, nil
}

// isLedgerError returns true for the named error conditions that callers
// are expected to match on
func isLedgerError(err error) bool {
	for _, known := range []error{
		ErrInvalidTarget,
		ErrInvalidProposer,
		ErrInvalidVoter,
		ErrInvalidStake,
		ErrInsufficientTokens,
		ErrProposalClosed,
		ErrDuplicateVote,
		ErrVotingStillOpen,
		ErrAlreadyExecuted,
		models.ErrProposalNotFound,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
