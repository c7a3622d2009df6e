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
	"fmt"
	"testing"
	"time"

	"github.com/blinklabs-io/vigil/database"
	"github.com/blinklabs-io/vigil/database/models"
	"github.com/blinklabs-io/vigil/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv bundles a ledger with a controllable clock and event bus
type testEnv struct {
	ledger *Ledger
	db     *database.Database
	bus    *event.EventBus
	now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.New(&database.Config{
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})
	env := &testEnv{
		db:  db,
		bus: event.NewEventBus(nil, nil),
		now: time.Now(),
	}
	env.ledger = New(LedgerConfig{
		Database:     db,
		EventBus:     env.bus,
		VotingWindow: time.Hour,
		Now:          func() time.Time { return env.now },
	})
	return env
}

// advance moves the test clock forward
func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

// testAddr generates a well-formed lowercase address from a seed
func testAddr(seed int) string {
	return fmt.Sprintf("0x%040x", seed)
}

func (e *testEnv) fund(t *testing.T, address string, amount uint64) {
	t.Helper()
	_, err := e.ledger.CreditTokens(address, amount)
	require.NoError(t, err)
}

func (e *testEnv) submit(t *testing.T, target string) *models.Proposal {
	t.Helper()
	proposal, err := e.ledger.SubmitProposal(
		target,
		"suspicious drainer contract",
		"ipfs://evidence",
		testAddr(999),
	)
	require.NoError(t, err)
	return proposal
}

func TestSubmitProposalValidation(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.ledger.SubmitProposal(
		"not-an-address",
		"desc",
		"",
		testAddr(1),
	)
	assert.ErrorIs(t, err, ErrInvalidTarget)
	_, err = env.ledger.SubmitProposal(
		testAddr(2),
		"desc",
		"",
		"not-an-address",
	)
	assert.ErrorIs(t, err, ErrInvalidProposer)
}

func TestSubmitProposal(t *testing.T) {
	env := newTestEnv(t)
	target := testAddr(10)
	proposal := env.submit(t, target)
	assert.NotZero(t, proposal.ID)
	assert.Equal(t, target, proposal.TargetAddress)
	assert.Equal(t, uint8(models.ProposalStatusActive), proposal.Status)
	assert.Equal(t, env.now.Add(time.Hour), proposal.Deadline)

	active, err := env.ledger.HasActiveProposal(target)
	require.NoError(t, err)
	assert.True(t, active)

	// Mixed-case lookups hit the same record
	activeUpper, err := env.ledger.HasActiveProposal(
		"0X" + target[2:],
	)
	require.NoError(t, err)
	assert.True(t, activeUpper)

	// Concurrent proposals against the same target are permitted
	second := env.submit(t, target)
	assert.NotEqual(t, proposal.ID, second.ID)
}

func TestGetProposalsFilters(t *testing.T) {
	env := newTestEnv(t)
	targetA := testAddr(20)
	targetB := testAddr(21)
	env.submit(t, targetA)
	env.submit(t, targetA)
	env.submit(t, targetB)

	byTarget, err := env.ledger.GetProposals(targetA, nil)
	require.NoError(t, err)
	assert.Len(t, byTarget, 2)

	active := uint8(models.ProposalStatusActive)
	all, err := env.ledger.GetProposals("", &active)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	executed := uint8(models.ProposalStatusExecuted)
	none, err := env.ledger.GetProposals("", &executed)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCastVote(t *testing.T) {
	env := newTestEnv(t)
	voter := testAddr(30)
	env.fund(t, voter, 1000)
	proposal := env.submit(t, testAddr(31))

	vote, err := env.ledger.CastVote(proposal.ID, voter, true, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), vote.Power)
	assert.Equal(t, uint64(100), vote.Staked)

	// Stake moved into escrow
	balance, err := env.db.GetTokenBalance(voter, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(900), balance.Spendable)
	assert.Equal(t, uint64(100), balance.Escrowed)

	// Tally reflects the vote power
	updated, err := env.ledger.GetProposal(proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), updated.ForPower)
	assert.Equal(t, uint64(0), updated.AgainstPower)
}

func TestCastVoteErrors(t *testing.T) {
	env := newTestEnv(t)
	voter := testAddr(40)
	env.fund(t, voter, 50)
	proposal := env.submit(t, testAddr(41))

	_, err := env.ledger.CastVote(proposal.ID, "bogus", true, 10)
	assert.ErrorIs(t, err, ErrInvalidVoter)

	_, err = env.ledger.CastVote(proposal.ID, voter, true, 0)
	assert.ErrorIs(t, err, ErrInvalidStake)

	_, err = env.ledger.CastVote(proposal.ID+100, voter, true, 10)
	assert.ErrorIs(t, err, models.ErrProposalNotFound)

	_, err = env.ledger.CastVote(proposal.ID, voter, true, 100)
	assert.ErrorIs(t, err, ErrInsufficientTokens)

	_, err = env.ledger.CastVote(proposal.ID, voter, true, 10)
	require.NoError(t, err)
	_, err = env.ledger.CastVote(proposal.ID, voter, false, 10)
	assert.ErrorIs(t, err, ErrDuplicateVote)

	// A failed vote must not leak escrow
	balance, err := env.db.GetTokenBalance(voter, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), balance.Spendable)
	assert.Equal(t, uint64(10), balance.Escrowed)
}

func TestCastVoteAfterDeadline(t *testing.T) {
	env := newTestEnv(t)
	voter := testAddr(50)
	env.fund(t, voter, 100)
	proposal := env.submit(t, testAddr(51))
	env.advance(time.Hour)
	_, err := env.ledger.CastVote(proposal.ID, voter, true, 10)
	assert.ErrorIs(t, err, ErrProposalClosed)
}

func TestExecuteProposalTooEarly(t *testing.T) {
	env := newTestEnv(t)
	proposal := env.submit(t, testAddr(60))
	_, err := env.ledger.ExecuteProposal(proposal.ID, testAddr(61))
	assert.ErrorIs(t, err, ErrVotingStillOpen)
}

func TestExecuteProposalPassed(t *testing.T) {
	env := newTestEnv(t)
	target := testAddr(70)
	supporterA := testAddr(71)
	supporterB := testAddr(72)
	opponent := testAddr(73)
	env.fund(t, supporterA, 100)
	env.fund(t, supporterB, 100)
	env.fund(t, opponent, 25)
	proposal := env.submit(t, target)

	_, evtCh := env.bus.Subscribe(event.SettlementEventType)

	_, err := env.ledger.CastVote(proposal.ID, supporterA, true, 100)
	require.NoError(t, err)
	_, err = env.ledger.CastVote(proposal.ID, supporterB, true, 100)
	require.NoError(t, err)
	_, err = env.ledger.CastVote(proposal.ID, opponent, false, 25)
	require.NoError(t, err)

	env.advance(time.Hour)
	settled, err := env.ledger.ExecuteProposal(proposal.ID, testAddr(74))
	require.NoError(t, err)
	// for=20, against=5 -> 80% approval
	assert.Equal(t, uint8(models.ProposalStatusExecuted), settled.Status)
	assert.Equal(t, uint8(models.ProposalStatusPassed), settled.Outcome)

	// Trust registry updated
	score, err := env.ledger.ThreatScore(target)
	require.NoError(t, err)
	assert.Equal(t, 25, score)
	confirmed, err := env.ledger.IsConfirmedScam(target)
	require.NoError(t, err)
	assert.True(t, confirmed)

	// Winners gain accuracy, losers lose (clamped at zero)
	statsA, err := env.ledger.GetVoterStats(supporterA)
	require.NoError(t, err)
	assert.Equal(t, 5, statsA.Accuracy)
	assert.Equal(t, uint64(1), statsA.Participation)
	statsC, err := env.ledger.GetVoterStats(opponent)
	require.NoError(t, err)
	assert.Equal(t, 0, statsC.Accuracy)
	assert.Equal(t, uint64(1), statsC.Participation)

	// Full escrow refund on both sides
	for _, addr := range []string{supporterA, supporterB} {
		balance, err := env.db.GetTokenBalance(addr, nil)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), balance.Spendable)
		assert.Equal(t, uint64(0), balance.Escrowed)
	}
	balance, err := env.db.GetTokenBalance(opponent, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), balance.Spendable)
	assert.Equal(t, uint64(0), balance.Escrowed)

	// Exactly one settlement event with absolute trust state
	select {
	case evt := <-evtCh:
		settlement, ok := evt.Data.(event.SettlementEvent)
		require.True(t, ok)
		assert.Equal(t, proposal.ID, settlement.ProposalID)
		assert.Equal(t, target, settlement.TargetAddress)
		assert.True(t, settlement.Passed)
		assert.Equal(t, 25, settlement.NewScamScore)
		assert.True(t, settlement.ConfirmedScam)
		assert.Len(t, settlement.AffectedVoters, 3)
	case <-time.After(time.Second):
		t.Fatal("no settlement event received")
	}

	// Settlement happens at most once
	_, err = env.ledger.ExecuteProposal(proposal.ID, testAddr(74))
	assert.ErrorIs(t, err, ErrAlreadyExecuted)
}

func TestExecuteProposalRejected(t *testing.T) {
	env := newTestEnv(t)
	target := testAddr(80)
	opponent := testAddr(81)
	env.fund(t, opponent, 100)
	proposal := env.submit(t, target)
	_, err := env.ledger.CastVote(proposal.ID, opponent, false, 100)
	require.NoError(t, err)

	env.advance(time.Hour)
	settled, err := env.ledger.ExecuteProposal(proposal.ID, opponent)
	require.NoError(t, err)
	assert.Equal(t, uint8(models.ProposalStatusRejected), settled.Outcome)

	// No trust update on rejection
	score, err := env.ledger.ThreatScore(target)
	require.NoError(t, err)
	assert.Equal(t, 0, score)
	confirmed, err := env.ledger.IsConfirmedScam(target)
	require.NoError(t, err)
	assert.False(t, confirmed)

	// Escrow is fully refunded on rejection, same as on passage
	balance, err := env.db.GetTokenBalance(opponent, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), balance.Spendable)
	assert.Equal(t, uint64(0), balance.Escrowed)
}

func TestExecuteProposalNoVotes(t *testing.T) {
	env := newTestEnv(t)
	target := testAddr(90)
	proposal := env.submit(t, target)
	env.advance(time.Hour)
	// Zero total power settles as rejected with no trust update
	settled, err := env.ledger.ExecuteProposal(proposal.ID, testAddr(91))
	require.NoError(t, err)
	assert.Equal(t, uint8(models.ProposalStatusRejected), settled.Outcome)
	score, err := env.ledger.ThreatScore(target)
	require.NoError(t, err)
	assert.Equal(t, 0, score)
}

func TestApprovalThresholdBoundary(t *testing.T) {
	env := newTestEnv(t)

	// Exactly 60% of power passes
	supporter := testAddr(100)
	opponent := testAddr(101)
	env.fund(t, supporter, 36)
	env.fund(t, opponent, 16)
	proposal := env.submit(t, testAddr(102))
	_, err := env.ledger.CastVote(proposal.ID, supporter, true, 36)
	require.NoError(t, err)
	_, err = env.ledger.CastVote(proposal.ID, opponent, false, 16)
	require.NoError(t, err)
	env.advance(time.Hour)
	settled, err := env.ledger.ExecuteProposal(proposal.ID, supporter)
	require.NoError(t, err)
	// for=6, against=4 -> exactly 60%
	assert.Equal(t, uint8(models.ProposalStatusPassed), settled.Outcome)

	// Just below 60% rejects
	supporter2 := testAddr(103)
	opponent2 := testAddr(104)
	env.fund(t, supporter2, 3481) // power 59
	env.fund(t, opponent2, 1681)  // power 41
	proposal2 := env.submit(t, testAddr(105))
	_, err = env.ledger.CastVote(proposal2.ID, supporter2, true, 3481)
	require.NoError(t, err)
	_, err = env.ledger.CastVote(proposal2.ID, opponent2, false, 1681)
	require.NoError(t, err)
	env.advance(time.Hour)
	settled2, err := env.ledger.ExecuteProposal(proposal2.ID, supporter2)
	require.NoError(t, err)
	assert.Equal(t, uint8(models.ProposalStatusRejected), settled2.Outcome)
}

func TestScamScoreSaturation(t *testing.T) {
	env := newTestEnv(t)
	target := testAddr(110)
	voter := testAddr(111)
	env.fund(t, voter, 10000)

	expected := []int{25, 50, 75, 100, 100}
	for _, want := range expected {
		proposal := env.submit(t, target)
		_, err := env.ledger.CastVote(proposal.ID, voter, true, 100)
		require.NoError(t, err)
		env.advance(time.Hour)
		_, err = env.ledger.ExecuteProposal(proposal.ID, voter)
		require.NoError(t, err)
		score, err := env.ledger.ThreatScore(target)
		require.NoError(t, err)
		assert.Equal(t, want, score)
		confirmed, err := env.ledger.IsConfirmedScam(target)
		require.NoError(t, err)
		assert.True(t, confirmed)
	}
}

func TestAccuracyFloor(t *testing.T) {
	env := newTestEnv(t)
	loser := testAddr(120)
	winner := testAddr(121)
	env.fund(t, loser, 1000)
	env.fund(t, winner, 100000)

	for range 3 {
		proposal := env.submit(t, testAddr(122))
		_, err := env.ledger.CastVote(proposal.ID, loser, false, 9)
		require.NoError(t, err)
		_, err = env.ledger.CastVote(proposal.ID, winner, true, 10000)
		require.NoError(t, err)
		env.advance(time.Hour)
		_, err = env.ledger.ExecuteProposal(proposal.ID, winner)
		require.NoError(t, err)
	}
	stats, err := env.ledger.GetVoterStats(loser)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Accuracy)
	assert.Equal(t, uint64(3), stats.Participation)
}

func TestThreatReport(t *testing.T) {
	env := newTestEnv(t)
	target := testAddr(130)
	voter := testAddr(131)
	env.fund(t, voter, 1000)
	proposal := env.submit(t, target)
	_, err := env.ledger.CastVote(proposal.ID, voter, true, 100)
	require.NoError(t, err)
	env.advance(time.Hour)
	_, err = env.ledger.ExecuteProposal(proposal.ID, voter)
	require.NoError(t, err)

	report, err := env.ledger.GetThreatReport(target)
	require.NoError(t, err)
	assert.Equal(t, target, report.Address)
	assert.Equal(t, 25, report.Score)
	assert.Equal(t, "UNDER REVIEW", report.RiskLabel)
	assert.True(t, report.IsConfirmedScam)
	assert.Equal(t, uint64(10), report.ForPower)
	assert.Equal(t, uint64(1), report.TotalVoters)
	assert.Equal(t, uint64(100), report.ConfidencePercent)
	assert.NotEmpty(t, report.Explanation)
}

func TestThreatReportUnknownAddress(t *testing.T) {
	env := newTestEnv(t)
	report, err := env.ledger.GetThreatReport(testAddr(140))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Score)
	assert.Equal(t, "CLEAN", report.RiskLabel)
	assert.False(t, report.IsConfirmedScam)
}

func TestRiskLabels(t *testing.T) {
	testDefs := []struct {
		score int
		label string
		color string
	}{
		{0, "CLEAN", "#059669"},
		{19, "CLEAN", "#059669"},
		{20, "UNDER REVIEW", "#2563EB"},
		{49, "UNDER REVIEW", "#2563EB"},
		{50, "HIGH RISK", "#D97706"},
		{74, "HIGH RISK", "#D97706"},
		{75, "CRITICAL", "#DC2626"},
		{100, "CRITICAL", "#DC2626"},
	}
	for _, testDef := range testDefs {
		assert.Equal(t, testDef.label, RiskLabelFor(testDef.score))
		assert.Equal(t, testDef.color, RiskColorFor(testDef.score))
	}
}
