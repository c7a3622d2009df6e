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

// GetTokenBalance returns the token balance for an address, creating a
// zeroed balance row if none exists
func (d *Database) GetTokenBalance(
	address string,
	txn *gorm.DB,
) (*models.TokenBalance, error) {
	if txn == nil {
		txn = d.db
	}
	var balance models.TokenBalance
	result := txn.Where("address = ?", address).First(&balance)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			balance = models.TokenBalance{
				Address: address,
			}
			if result := txn.Create(&balance); result.Error != nil {
				return nil, fmt.Errorf(
					"failed to create token balance: %w",
					result.Error,
				)
			}
			return &balance, nil
		}
		return nil, fmt.Errorf("failed to get token balance: %w", result.Error)
	}
	return &balance, nil
}

// CreditTokens adds spendable tokens to an address
func (d *Database) CreditTokens(
	address string,
	amount uint64,
	txn *gorm.DB,
) (*models.TokenBalance, error) {
	if txn == nil {
		txn = d.db
	}
	balance, err := d.GetTokenBalance(address, txn)
	if err != nil {
		return nil, err
	}
	balance.Spendable += amount
	if result := txn.Save(balance); result.Error != nil {
		return nil, fmt.Errorf("failed to credit tokens: %w", result.Error)
	}
	return balance, nil
}

// EscrowTokens moves tokens from an address's spendable balance into
// escrow. Returns ErrInsufficientBalance if the spendable balance is too
// low.
func (d *Database) EscrowTokens(
	address string,
	amount uint64,
	txn *gorm.DB,
) error {
	if txn == nil {
		txn = d.db
	}
	balance, err := d.GetTokenBalance(address, txn)
	if err != nil {
		return err
	}
	if balance.Spendable < amount {
		return models.ErrInsufficientBalance
	}
	balance.Spendable -= amount
	balance.Escrowed += amount
	if result := txn.Save(balance); result.Error != nil {
		return fmt.Errorf("failed to escrow tokens: %w", result.Error)
	}
	return nil
}

// ReleaseEscrow returns escrowed tokens to an address's spendable balance
func (d *Database) ReleaseEscrow(
	address string,
	amount uint64,
	txn *gorm.DB,
) error {
	if txn == nil {
		txn = d.db
	}
	balance, err := d.GetTokenBalance(address, txn)
	if err != nil {
		return err
	}
	if balance.Escrowed < amount {
		return fmt.Errorf(
			"escrow underflow for %s: have %d, want %d",
			address,
			balance.Escrowed,
			amount,
		)
	}
	balance.Escrowed -= amount
	balance.Spendable += amount
	if result := txn.Save(balance); result.Error != nil {
		return fmt.Errorf("failed to release escrow: %w", result.Error)
	}
	return nil
}
