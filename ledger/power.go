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

import "github.com/blinklabs-io/vigil/database/models"

// Reputation bonus thresholds. Voters above both earn a 20% power bonus.
const (
	bonusAccuracyThreshold      = 80
	bonusParticipationThreshold = 5
)

// VotingPower maps a staked amount and voter reputation to influence.
// Influence is the integer square root of the stake, so it grows
// sub-linearly: 100x the stake yields only 10x the power. Defined for all
// inputs with no side effects.
func VotingPower(tokensStaked uint64, profile *models.VoterProfile) uint64 {
	power := intSqrt(tokensStaked)
	if profile != nil &&
		profile.Accuracy > bonusAccuracyThreshold &&
		profile.Participation >= bonusParticipationThreshold {
		power = power * 120 / 100
	}
	return power
}

// intSqrt returns the integer floor of the square root of n using
// Newton's method on integers
func intSqrt(n uint64) uint64 {
	if n < 2 {
		return n
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
