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

// GetTrustRecord returns the trust record for an address
func (d *Database) GetTrustRecord(
	address string,
	txn *gorm.DB,
) (*models.TrustRecord, error) {
	if txn == nil {
		txn = d.db
	}
	var record models.TrustRecord
	result := txn.Where("address = ?", address).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrTrustRecordNotFound
		}
		return nil, fmt.Errorf("failed to get trust record: %w", result.Error)
	}
	return &record, nil
}

// ApplyScamConfirmation bumps the scam score for an address by the given
// step (saturating at 100) and marks it confirmed. The record is created
// on first confirmation. Returns the updated record.
func (d *Database) ApplyScamConfirmation(
	address string,
	proposalId uint,
	step int,
	txn *gorm.DB,
) (*models.TrustRecord, error) {
	if txn == nil {
		txn = d.db
	}
	record, err := d.GetTrustRecord(address, txn)
	if err != nil {
		if !errors.Is(err, models.ErrTrustRecordNotFound) {
			return nil, err
		}
		record = &models.TrustRecord{
			Address: address,
		}
	}
	record.ScamScore = min(100, record.ScamScore+step)
	record.IsConfirmedScam = true
	record.LastProposalID = proposalId
	if result := txn.Save(record); result.Error != nil {
		return nil, fmt.Errorf(
			"failed to apply scam confirmation: %w",
			result.Error,
		)
	}
	return record, nil
}
