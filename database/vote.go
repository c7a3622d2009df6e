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

package database

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/vigil/database/models"
	"gorm.io/gorm"
)

// CreateVote stores a new vote
func (d *Database) CreateVote(
	vote *models.Vote,
	txn *gorm.DB,
) error {
	if vote == nil {
		return errors.New("vote cannot be nil")
	}
	if txn == nil {
		txn = d.db
	}
	if result := txn.Create(vote); result.Error != nil {
		return fmt.Errorf("failed to create vote: %w", result.Error)
	}
	return nil
}

// GetVote returns the vote cast by a voter on a proposal
func (d *Database) GetVote(
	proposalId uint,
	voter string,
	txn *gorm.DB,
) (*models.Vote, error) {
	if txn == nil {
		txn = d.db
	}
	var vote models.Vote
	result := txn.Where("proposal_id = ? AND voter = ?", proposalId, voter).
		First(&vote)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrVoteNotFound
		}
		return nil, fmt.Errorf("failed to get vote: %w", result.Error)
	}
	return &vote, nil
}

// GetVotesByProposal returns all votes cast on a proposal
func (d *Database) GetVotesByProposal(
	proposalId uint,
	txn *gorm.DB,
) ([]models.Vote, error) {
	if txn == nil {
		txn = d.db
	}
	var votes []models.Vote
	result := txn.Where("proposal_id = ?", proposalId).
		Order("id").
		Find(&votes)
	if result.Error != nil {
		return nil, fmt.Errorf(
			"failed to get votes for proposal %d: %w",
			proposalId,
			result.Error,
		)
	}
	return votes, nil
}

// CountVotesByProposal returns the number of voters on a proposal
func (d *Database) CountVotesByProposal(
	proposalId uint,
	txn *gorm.DB,
) (int64, error) {
	if txn == nil {
		txn = d.db
	}
	var count int64
	result := txn.Model(&models.Vote{}).
		Where("proposal_id = ?", proposalId).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf(
			"failed to count votes for proposal %d: %w",
			proposalId,
			result.Error,
		)
	}
	return count, nil
}
