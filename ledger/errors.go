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

import "errors"

// Validation errors: rejected before any state change, recoverable by
// caller correction
var (
	ErrInvalidTarget      = errors.New("target is not a well-formed address")
	ErrInvalidProposer    = errors.New("proposer is not a well-formed address")
	ErrInvalidVoter       = errors.New("voter is not a well-formed address")
	ErrInvalidStake       = errors.New("stake must be greater than zero")
	ErrInsufficientTokens = errors.New("insufficient transferable tokens")
)

// State-conflict errors: the caller's view of state was stale
var (
	ErrProposalClosed  = errors.New("voting period has ended")
	ErrDuplicateVote   = errors.New("voter has already voted on this proposal")
	ErrVotingStillOpen = errors.New("voting period has not ended")
	ErrAlreadyExecuted = errors.New("proposal has already been executed")
)
