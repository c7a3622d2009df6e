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

// CreateProposal stores a new proposal
func (d *Database) CreateProposal(
	proposal *models.Proposal,
	txn *gorm.DB,
) error {
	if proposal == nil {
		return errors.New("proposal cannot be nil")
	}
	if txn == nil {
		txn = d.db
	}
	if result := txn.Create(proposal); result.Error != nil {
		return fmt.Errorf("failed to create proposal: %w", result.Error)
	}
	return nil
}

// GetProposal returns a proposal by id
func (d *Database) GetProposal(
	proposalId uint,
	txn *gorm.DB,
) (*models.Proposal, error) {
	if txn == nil {
		txn = d.db
	}
	var proposal models.Proposal
	result := txn.First(&proposal, proposalId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to get proposal: %w", result.Error)
	}
	return &proposal, nil
}

// UpdateProposal persists changes to an existing proposal
func (d *Database) UpdateProposal(
	proposal *models.Proposal,
	txn *gorm.DB,
) error {
	if proposal == nil {
		return errors.New("proposal cannot be nil")
	}
	if txn == nil {
		txn = d.db
	}
	if result := txn.Save(proposal); result.Error != nil {
		return fmt.Errorf("failed to update proposal: %w", result.Error)
	}
	return nil
}

// GetProposalsByTarget returns all proposals against a target address,
// optionally filtered by status
func (d *Database) GetProposalsByTarget(
	targetAddress string,
	status *uint8,
	txn *gorm.DB,
) ([]models.Proposal, error) {
	if txn == nil {
		txn = d.db
	}
	var proposals []models.Proposal
	query := txn.Where("target_address = ?", targetAddress)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if result := query.Order("id").Find(&proposals); result.Error != nil {
		return nil, fmt.Errorf(
			"failed to get proposals for target %s: %w",
			targetAddress,
			result.Error,
		)
	}
	return proposals, nil
}

// GetProposals returns proposals filtered by status. A nil status returns
// all proposals
func (d *Database) GetProposals(
	status *uint8,
	txn *gorm.DB,
) ([]models.Proposal, error) {
	if txn == nil {
		txn = d.db
	}
	var proposals []models.Proposal
	query := txn.Order("id")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if result := query.Find(&proposals); result.Error != nil {
		return nil, fmt.Errorf("failed to get proposals: %w", result.Error)
	}
	return proposals, nil
}

// HasActiveProposalForTarget returns true if any unsettled proposal exists
// against the target address
func (d *Database) HasActiveProposalForTarget(
	targetAddress string,
	txn *gorm.DB,
) (bool, error) {
	if txn == nil {
		txn = d.db
	}
	var count int64
	result := txn.Model(&models.Proposal{}).
		Where(
			"target_address = ? AND status = ?",
			targetAddress,
			models.ProposalStatusActive,
		).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf(
			"failed to count active proposals for target %s: %w",
			targetAddress,
			result.Error,
		)
	}
	return count > 0, nil
}
