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

package models

import (
	"errors"
	"time"
)

var ErrVoteNotFound = errors.New("vote not found")

// Vote represents a vote cast on a proposal. At most one vote exists per
// (proposal, voter) pair. Once cast, a vote cannot be changed or withdrawn
// before settlement; the staked tokens are held in escrow until the
// proposal settles.
type Vote struct {
	ID         uint   `gorm:"primarykey"`
	ProposalID uint   `gorm:"index:idx_vote_proposal;uniqueIndex:idx_vote_unique,priority:1;not null"`
	Voter      string `gorm:"index;uniqueIndex:idx_vote_unique,priority:2;size:42;not null"`
	Support    bool   `gorm:"not null"`
	Staked     uint64 `gorm:"not null"`
	Power      uint64 `gorm:"not null"`
	CastAt     time.Time
}

// TableName returns the table name
func (Vote) TableName() string {
	return "vote"
}
