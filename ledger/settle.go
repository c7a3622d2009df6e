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
	"github.com/blinklabs-io/vigil/event"
	"gorm.io/gorm"
)

// Reputation adjustments applied at settlement
const (
	accuracyReward  = 5
	accuracyPenalty = 10
)

// ExecuteProposal settles a proposal at or after its deadline. Callable by
// anyone, but only once. Settlement tallies the final powers, updates the
// trust registry on a pass, adjusts every voter's reputation, refunds all
// escrowed stakes in full regardless of outcome, and publishes a
// settlement event.
func (l *Ledger) ExecuteProposal(
	proposalId uint,
	caller string,
) (*models.Proposal, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	var proposal *models.Proposal
	var settlement event.SettlementEvent
	err := l.db.Transaction(func(txn *gorm.DB) error {
		var err error
		proposal, err = l.db.GetProposal(proposalId, txn)
		if err != nil {
			return err
		}
		if proposal.Status == models.ProposalStatusExecuted {
			return ErrAlreadyExecuted
		}
		now := l.now()
		if now.Before(proposal.Deadline) {
			return ErrVotingStillOpen
		}
		// Decide the outcome. No votes means no mandate, so a zero tally
		// settles as rejected with no trust update.
		total := proposal.ForPower + proposal.AgainstPower
		passed := total > 0 &&
			proposal.ForPower*100/total >= ApprovalThresholdPercent
		if passed {
			proposal.Outcome = models.ProposalStatusPassed
		} else {
			proposal.Outcome = models.ProposalStatusRejected
		}
		settlement = event.SettlementEvent{
			ProposalID:    proposal.ID,
			TargetAddress: proposal.TargetAddress,
			Passed:        passed,
			ForPower:      proposal.ForPower,
			AgainstPower:  proposal.AgainstPower,
			Timestamp:     now,
		}
		// Update the trust registry on a pass
		if passed {
			record, err := l.db.ApplyScamConfirmation(
				proposal.TargetAddress,
				proposal.ID,
				ScamScoreStep,
				txn,
			)
			if err != nil {
				return err
			}
			settlement.NewScamScore = record.ScamScore
			settlement.ConfirmedScam = record.IsConfirmedScam
		} else {
			record, err := l.db.GetTrustRecord(proposal.TargetAddress, txn)
			if err == nil {
				settlement.NewScamScore = record.ScamScore
				settlement.ConfirmedScam = record.IsConfirmedScam
			}
		}
		// Settle every voter: reputation, participation, escrow refund
		votes, err := l.db.GetVotesByProposal(proposal.ID, txn)
		if err != nil {
			return err
		}
		for _, vote := range votes {
			profile, err := l.db.GetOrCreateVoterProfile(vote.Voter, txn)
			if err != nil {
				return err
			}
			if vote.Support == passed {
				profile.Accuracy = min(100, profile.Accuracy+accuracyReward)
			} else {
				profile.Accuracy = max(0, profile.Accuracy-accuracyPenalty)
			}
			profile.Participation++
			if err := l.db.UpdateVoterProfile(profile, txn); err != nil {
				return err
			}
			// Voting is never a financial penalty, only a reputational
			// one: the full stake comes back on both outcomes
			if err := l.db.ReleaseEscrow(vote.Voter, vote.Staked, txn); err != nil {
				return err
			}
			settlement.AffectedVoters = append(
				settlement.AffectedVoters,
				event.SettlementVoter{
					Voter:         vote.Voter,
					Support:       vote.Support,
					StakeReturned: vote.Staked,
					Accuracy:      profile.Accuracy,
					Participation: profile.Participation,
				},
			)
		}
		proposal.Status = models.ProposalStatusExecuted
		return l.db.UpdateProposal(proposal, txn)
	})
	if err != nil {
		if isLedgerError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("execute proposal: %w", err)
	}
	outcome := models.ProposalStatusString(proposal.Outcome)
	if l.metrics != nil {
		l.metrics.settlements.WithLabelValues(outcome).Inc()
	}
	l.logger.Info(
		"proposal settled",
		"proposal_id", proposal.ID,
		"target", proposal.TargetAddress,
		"outcome", outcome,
		"for_power", proposal.ForPower,
		"against_power", proposal.AgainstPower,
		"new_scam_score", settlement.NewScamScore,
		"voters", len(settlement.AffectedVoters),
		"caller", NormalizeAddress(caller),
	)
	l.publishSettlement(settlement)
	return proposal, nil
}
