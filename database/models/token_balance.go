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

import "errors"

var ErrInsufficientBalance = errors.New("insufficient spendable balance")

// TokenBalance tracks a participant's spendable and escrowed governance
// tokens. Escrow moves are performed only by vote casting and settlement;
// general token transfer mechanics live outside this node.
type TokenBalance struct {
	ID        uint   `gorm:"primarykey"`
	Address   string `gorm:"uniqueIndex;size:42;not null"`
	Spendable uint64 `gorm:"not null"`
	Escrowed  uint64 `gorm:"not null"`
}

// TableName returns the table name
func (TokenBalance) TableName() string {
	return "token_balance"
}
