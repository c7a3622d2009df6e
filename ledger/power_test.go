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

package ledger

import (
	"testing"

	"github.com/blinklabs-io/vigil/database/models"
	"github.com/stretchr/testify/assert"
)

func TestIntSqrt(t *testing.T) {
	testDefs := []struct {
		input    uint64
		expected uint64
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 2},
		{99, 9},
		{100, 10},
		{101, 10},
		{10000, 100},
		{1 << 40, 1 << 20},
	}
	for _, testDef := range testDefs {
		assert.Equal(
			t,
			testDef.expected,
			intSqrt(testDef.input),
			"intSqrt(%d)", testDef.input,
		)
	}
}

func TestVotingPowerSublinear(t *testing.T) {
	// 100x the stake yields only 10x the power
	assert.Equal(t, uint64(1), VotingPower(1, nil))
	assert.Equal(t, uint64(10), VotingPower(100, nil))
	assert.Equal(t, uint64(100), VotingPower(10000, nil))
}

func TestVotingPowerMonotonic(t *testing.T) {
	var prev uint64
	for stake := uint64(0); stake <= 2000; stake++ {
		power := VotingPower(stake, nil)
		assert.GreaterOrEqual(t, power, prev)
		prev = power
	}
}

func TestVotingPowerReputationBonus(t *testing.T) {
	earned := &models.VoterProfile{Accuracy: 85, Participation: 6}
	assert.Equal(t, uint64(120), VotingPower(10000, earned))

	// Both thresholds must be met
	lowAccuracy := &models.VoterProfile{Accuracy: 80, Participation: 6}
	assert.Equal(t, uint64(100), VotingPower(10000, lowAccuracy))
	lowParticipation := &models.VoterProfile{Accuracy: 85, Participation: 4}
	assert.Equal(t, uint64(100), VotingPower(10000, lowParticipation))

	// Boundary: participation threshold is inclusive
	boundary := &models.VoterProfile{Accuracy: 81, Participation: 5}
	assert.Equal(t, uint64(120), VotingPower(10000, boundary))
}

func TestValidAddress(t *testing.T) {
	assert.True(
		t,
		ValidAddress("0x1234567890abcdef1234567890abcdef12345678"),
	)
	assert.True(
		t,
		ValidAddress("0x1234567890ABCDEF1234567890ABCDEF12345678"),
	)
	assert.False(t, ValidAddress(""))
	assert.False(t, ValidAddress("0x1234"))
	assert.False(
		t,
		ValidAddress("1234567890abcdef1234567890abcdef12345678"),
	)
	assert.False(
		t,
		ValidAddress("0xzzzz567890abcdef1234567890abcdef12345678"),
	)
}
