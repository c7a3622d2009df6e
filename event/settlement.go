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

package event

import "time"

// SettlementEventType is the event type for proposal settlements
const SettlementEventType = EventType("proposal.settlement")

// SettlementVoter describes the per-voter effects of a settlement
type SettlementVoter struct {
	// Voter is the participant address
	Voter string
	// Support is the side the voter took
	Support bool
	// StakeReturned is the escrow amount refunded to the voter
	StakeReturned uint64
	// Accuracy is the voter's accuracy score after settlement
	Accuracy int
	// Participation is the voter's participation count after settlement
	Participation uint64
}

// SettlementEvent is emitted exactly once per proposal when it settles.
// It carries the full post-settlement trust state for the target address
// so consumers can apply idempotent upserts without reading the ledger.
type SettlementEvent struct {
	// ProposalID is the settled proposal
	ProposalID uint
	// TargetAddress is the address that was under investigation
	TargetAddress string
	// Passed is true if the proposal met the approval threshold
	Passed bool
	// ForPower and AgainstPower are the final tallies
	ForPower     uint64
	AgainstPower uint64
	// NewScamScore is the trust registry score after settlement (absolute
	// value, not a delta)
	NewScamScore int
	// ConfirmedScam is the trust registry flag after settlement
	ConfirmedScam bool
	// AffectedVoters lists every voter whose reputation and escrow were
	// touched by this settlement
	AffectedVoters []SettlementVoter
	// Timestamp is when the settlement was applied
	Timestamp time.Time
}
