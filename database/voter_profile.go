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

// GetVoterProfile returns the reputation profile for a voter address
func (d *Database) GetVoterProfile(
	address string,
	txn *gorm.DB,
) (*models.VoterProfile, error) {
	if txn == nil {
		txn = d.db
	}
	var profile models.VoterProfile
	result := txn.Where("address = ?", address).First(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrVoterProfileNotFound
		}
		return nil, fmt.Errorf("failed to get voter profile: %w", result.Error)
	}
	return &profile, nil
}

// GetOrCreateVoterProfile returns the profile for a voter address,
// creating a zeroed profile if none exists yet
func (d *Database) GetOrCreateVoterProfile(
	address string,
	txn *gorm.DB,
) (*models.VoterProfile, error) {
	if txn == nil {
		txn = d.db
	}
	profile, err := d.GetVoterProfile(address, txn)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, models.ErrVoterProfileNotFound) {
		return nil, err
	}
	profile = &models.VoterProfile{
		Address: address,
	}
	if result := txn.Create(profile); result.Error != nil {
		return nil, fmt.Errorf(
			"failed to create voter profile: %w",
			result.Error,
		)
	}
	return profile, nil
}

// UpdateVoterProfile persists changes to an existing voter profile
func (d *Database) UpdateVoterProfile(
	profile *models.VoterProfile,
	txn *gorm.DB,
) error {
	if profile == nil {
		return errors.New("voter profile cannot be nil")
	}
	if txn == nil {
		txn = d.db
	}
	if result := txn.Save(profile); result.Error != nil {
		return fmt.Errorf(
			"failed to update voter profile: %w",
			result.Error,
		)
	}
	return nil
}
