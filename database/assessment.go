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

// AssessmentStats holds counts of persisted assessments per band
type AssessmentStats struct {
	Safe       int64 `json:"safe"`
	Suspicious int64 `json:"suspicious"`
	Blocked    int64 `json:"blocked"`
	Total      int64 `json:"total"`
}

// CreateAssessment stores a risk assessment record
func (d *Database) CreateAssessment(
	assessment *models.Assessment,
	txn *gorm.DB,
) error {
	if assessment == nil {
		return errors.New("assessment cannot be nil")
	}
	if txn == nil {
		txn = d.db
	}
	if result := txn.Create(assessment); result.Error != nil {
		return fmt.Errorf("failed to create assessment: %w", result.Error)
	}
	return nil
}

// GetAssessmentStats returns per-band counts of persisted assessments
func (d *Database) GetAssessmentStats(
	txn *gorm.DB,
) (*AssessmentStats, error) {
	if txn == nil {
		txn = d.db
	}
	var stats AssessmentStats
	counts := []struct {
		band string
		out  *int64
	}{
		{"safe", &stats.Safe},
		{"suspicious", &stats.Suspicious},
		{"blocked", &stats.Blocked},
	}
	for _, c := range counts {
		result := txn.Model(&models.Assessment{}).
			Where("band = ?", c.band).
			Count(c.out)
		if result.Error != nil {
			return nil, fmt.Errorf(
				"failed to count %s assessments: %w",
				c.band,
				result.Error,
			)
		}
	}
	stats.Total = stats.Safe + stats.Suspicious + stats.Blocked
	return &stats, nil
}
