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

import "time"

// Assessment is a persisted record of a risk fusion result for a candidate
// transaction. The fusion engine itself is stateless; these rows exist for
// the stats endpoint and audit history.
type Assessment struct {
	ID          uint    `gorm:"primarykey"`
	FromAddress string  `gorm:"index;size:42"`
	ToAddress   string  `gorm:"index;size:42;not null"`
	Value       float64 `gorm:"not null"`
	// MlLabel is the classifier label used (or the fallback when the ML
	// collaborator was unreachable)
	MlLabel      string  `gorm:"size:16;not null"`
	MlDegraded   bool    `gorm:"not null"`
	CombinedRisk float64 `gorm:"not null"`
	Band         string  `gorm:"index;size:16;not null"`
	CreatedAt    time.Time
}

// TableName returns the table name
func (Assessment) TableName() string {
	return "assessment"
}
