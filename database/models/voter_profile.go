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

var ErrVoterProfileNotFound = errors.New("voter profile not found")

// VoterProfile tracks per-participant reputation. Accuracy and
// participation are adjusted only by proposal settlement, never by
// direct write. Profiles are created lazily on first vote.
type VoterProfile struct {
	ID      uint   `gorm:"primarykey"`
	Address string `gorm:"uniqueIndex;size:42;not null"`
	// Accuracy is a 0-100 score of how often the voter sided with the
	// eventual settlement outcome
	Accuracy int `gorm:"not null"`
	// Participation counts settled proposals the voter took part in
	Participation uint64 `gorm:"not null"`
}

// TableName returns the table name
func (VoterProfile) TableName() string {
	return "voter_profile"
}
