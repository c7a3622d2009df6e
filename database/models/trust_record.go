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

var ErrTrustRecordNotFound = errors.New("trust record not found")

// TrustRecord tracks the community-confirmed scam score for an address.
// The score only ever increases (by 25 per passed proposal, saturating at
// 100), and the confirmed flag is never cleared. Records are written only
// by proposal settlement.
type TrustRecord struct {
	ID              uint   `gorm:"primarykey"`
	Address         string `gorm:"uniqueIndex;size:42;not null"`
	ScamScore       int    `gorm:"not null"`
	IsConfirmedScam bool   `gorm:"not null"`
	// LastProposalID is the most recent proposal that updated this record
	LastProposalID uint
	UpdatedAt      time.Time
}

// TableName returns the table name
func (TrustRecord) TableName() string {
	return "trust_record"
}
