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
	"testing"
	"time"

	"github.com/blinklabs-io/vigil/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testAddr  = "0x1111111111111111111111111111111111111111"
	testAddr2 = "0x2222222222222222222222222222222222222222"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := New(&Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})
	return db
}

func TestProposalRoundTrip(t *testing.T) {
	db := newTestDatabase(t)
	proposal := &models.Proposal{
		TargetAddress: testAddr,
		Description:   "drainer",
		Proposer:      testAddr2,
		CreatedAt:     time.Now(),
		Deadline:      time.Now().Add(time.Hour),
		Status:        models.ProposalStatusActive,
	}
	require.NoError(t, db.CreateProposal(proposal, nil))
	require.NotZero(t, proposal.ID)

	fetched, err := db.GetProposal(proposal.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, testAddr, fetched.TargetAddress)

	_, err = db.GetProposal(proposal.ID+100, nil)
	assert.ErrorIs(t, err, models.ErrProposalNotFound)

	active, err := db.HasActiveProposalForTarget(testAddr, nil)
	require.NoError(t, err)
	assert.True(t, active)
	none, err := db.HasActiveProposalForTarget(testAddr2, nil)
	require.NoError(t, err)
	assert.False(t, none)
}

func TestVoteUniqueness(t *testing.T) {
	db := newTestDatabase(t)
	vote := &models.Vote{
		ProposalID: 1,
		Voter:      testAddr,
		Support:    true,
		Staked:     10,
		Power:      3,
		CastAt:     time.Now(),
	}
	require.NoError(t, db.CreateVote(vote, nil))
	// Second vote by the same voter on the same proposal violates the
	// unique index
	dup := &models.Vote{
		ProposalID: 1,
		Voter:      testAddr,
		Support:    false,
		Staked:     5,
		Power:      2,
		CastAt:     time.Now(),
	}
	assert.Error(t, db.CreateVote(dup, nil))

	fetched, err := db.GetVote(1, testAddr, nil)
	require.NoError(t, err)
	assert.True(t, fetched.Support)
	_, err = db.GetVote(1, testAddr2, nil)
	assert.ErrorIs(t, err, models.ErrVoteNotFound)
}

func TestTrustRecordSaturation(t *testing.T) {
	db := newTestDatabase(t)
	_, err := db.GetTrustRecord(testAddr, nil)
	assert.ErrorIs(t, err, models.ErrTrustRecordNotFound)

	for i, expected := range []int{25, 50, 75, 100, 100} {
		record, err := db.ApplyScamConfirmation(
			testAddr,
			uint(i+1), //nolint:gosec
			25,
			nil,
		)
		require.NoError(t, err)
		assert.Equal(t, expected, record.ScamScore)
		assert.True(t, record.IsConfirmedScam)
	}
}

func TestTokenBalanceEscrow(t *testing.T) {
	db := newTestDatabase(t)
	// First read lazily creates a zeroed balance
	balance, err := db.GetTokenBalance(testAddr, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), balance.Spendable)

	_, err = db.CreditTokens(testAddr, 100, nil)
	require.NoError(t, err)

	err = db.EscrowTokens(testAddr, 150, nil)
	assert.ErrorIs(t, err, models.ErrInsufficientBalance)

	require.NoError(t, db.EscrowTokens(testAddr, 60, nil))
	balance, err = db.GetTokenBalance(testAddr, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), balance.Spendable)
	assert.Equal(t, uint64(60), balance.Escrowed)

	require.NoError(t, db.ReleaseEscrow(testAddr, 60, nil))
	balance, err = db.GetTokenBalance(testAddr, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), balance.Spendable)
	assert.Equal(t, uint64(0), balance.Escrowed)

	// Releasing more than is escrowed is an invariant violation
	assert.Error(t, db.ReleaseEscrow(testAddr, 1, nil))
}

func TestTransactionRollback(t *testing.T) {
	db := newTestDatabase(t)
	boom := errors.New("boom")
	err := db.Transaction(func(txn *gorm.DB) error {
		if _, err := db.CreditTokens(testAddr, 100, txn); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	// The credit inside the failed transaction must not be visible
	balance, err := db.GetTokenBalance(testAddr, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), balance.Spendable)
}

func TestAssessmentStats(t *testing.T) {
	db := newTestDatabase(t)
	for _, band := range []string{"safe", "safe", "suspicious", "blocked"} {
		require.NoError(t, db.CreateAssessment(&models.Assessment{
			FromAddress:  testAddr,
			ToAddress:    testAddr2,
			MlLabel:      "Non-Fraud",
			Band:         band,
			CreatedAt:    time.Now(),
			CombinedRisk: 0.1,
		}, nil))
	}
	stats, err := db.GetAssessmentStats(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Safe)
	assert.Equal(t, int64(1), stats.Suspicious)
	assert.Equal(t, int64(1), stats.Blocked)
	assert.Equal(t, int64(4), stats.Total)
}

func TestVoterProfileLazyCreate(t *testing.T) {
	db := newTestDatabase(t)
	_, err := db.GetVoterProfile(testAddr, nil)
	assert.ErrorIs(t, err, models.ErrVoterProfileNotFound)

	profile, err := db.GetOrCreateVoterProfile(testAddr, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.Accuracy)
	assert.Equal(t, uint64(0), profile.Participation)

	profile.Accuracy = 42
	profile.Participation = 3
	require.NoError(t, db.UpdateVoterProfile(profile, nil))
	fetched, err := db.GetVoterProfile(testAddr, nil)
	require.NoError(t, err)
	assert.Equal(t, 42, fetched.Accuracy)
}
