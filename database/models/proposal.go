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

var ErrProposalNotFound = errors.New("proposal not found")

// ProposalStatus constants represent the lifecycle state of a proposal.
// Transitions are one-directional: Active -> Passed|Rejected -> Executed.
const (
	ProposalStatusActive   = 0
	ProposalStatusPassed   = 1
	ProposalStatusRejected = 2
	ProposalStatusExecuted = 3
)

// ProposalStatusString returns the lowercase name for a proposal status
func ProposalStatusString(status uint8) string {
	switch status {
	case ProposalStatusActive:
		return "active"
	case ProposalStatusPassed:
		return "passed"
	case ProposalStatusRejected:
		return "rejected"
	case ProposalStatusExecuted:
		return "executed"
	default:
		return "unknown"
	}
}

// Proposal represents a scam adjudication proposal against a target address.
// Proposals are permanent history and are never deleted. The deadline is
// fixed at creation, and a proposal settles at most once.
type Proposal struct {
	ID            uint   `gorm:"primarykey"`
	TargetAddress string `gorm:"index;size:42;not null"`
	Description   string `gorm:"not null"`
	EvidenceRef   string `gorm:"size:128"`
	Proposer      string `gorm:"index;size:42;not null"`
	CreatedAt     time.Time
	Deadline      time.Time `gorm:"index;not null"`
	ForPower      uint64    `gorm:"not null"`
	AgainstPower  uint64    `gorm:"not null"`
	Status        uint8     `gorm:"index;not null"`
	// Outcome records the settlement decision (Passed or Rejected status
	// value) once the proposal reaches Executed
	Outcome uint8
}

// TableName returns the table name
func (Proposal) TableName() string {
	return "proposal"
}

// IsActive returns true if the proposal has not been settled
func (p *Proposal) IsActive() bool {
	return p.Status == ProposalStatusActive
}
