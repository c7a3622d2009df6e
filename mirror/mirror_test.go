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

package mirror

import (
	"testing"
	"time"

	"github.com/blinklabs-io/vigil/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTarget = "0x1234567890abcdef1234567890abcdef12345678"

func newTestMirror(
	t *testing.T,
	bus *event.EventBus,
	bound time.Duration,
) (*Mirror, <-chan event.SettlementEvent) {
	t.Helper()
	m, err := New(MirrorConfig{
		EventBus:       bus,
		StalenessBound: bound,
	})
	require.NoError(t, err)
	applied := make(chan event.SettlementEvent, 10)
	m.onApplied = func(settlement event.SettlementEvent) {
		applied <- settlement
	}
	require.NoError(t, m.Start())
	t.Cleanup(func() {
		m.Stop() //nolint:errcheck
	})
	return m, applied
}

func publishSettlement(
	bus *event.EventBus,
	settlement event.SettlementEvent,
) {
	bus.Publish(
		event.SettlementEventType,
		event.NewEvent(event.SettlementEventType, settlement),
	)
}

func TestMirrorAppliesSettlement(t *testing.T) {
	bus := event.NewEventBus(nil, nil)
	defer bus.Stop()
	m, applied := newTestMirror(t, bus, time.Minute)

	publishSettlement(bus, event.SettlementEvent{
		ProposalID:    1,
		TargetAddress: testTarget,
		Passed:        true,
		NewScamScore:  25,
		ConfirmedScam: true,
		Timestamp:     time.Now(),
	})
	select {
	case <-applied:
	case <-time.After(2 * time.Second):
		t.Fatal("settlement not applied")
	}

	snapshot, fresh, err := m.TrustState(testTarget)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.True(t, snapshot.Known)
	assert.Equal(t, 25, snapshot.ScamScore)
	assert.True(t, snapshot.IsConfirmedScam)
}

func TestMirrorMixedCaseAddress(t *testing.T) {
	bus := event.NewEventBus(nil, nil)
	defer bus.Stop()
	m, applied := newTestMirror(t, bus, time.Minute)

	// Settlement events carry the normalized lowercase target
	publishSettlement(bus, event.SettlementEvent{
		ProposalID:    3,
		TargetAddress: testTarget,
		Passed:        true,
		NewScamScore:  25,
		ConfirmedScam: true,
		Timestamp:     time.Now(),
	})
	select {
	case <-applied:
	case <-time.After(2 * time.Second):
		t.Fatal("settlement not applied")
	}

	// A checksummed mixed-case query must hit the same entry
	mixed := "0x1234567890AbCdEf1234567890aBcDeF12345678"
	snapshot, fresh, err := m.TrustState(mixed)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.True(t, snapshot.Known)
	assert.Equal(t, 25, snapshot.ScamScore)
	assert.True(t, snapshot.IsConfirmedScam)
}

func TestMirrorUnknownAddress(t *testing.T) {
	bus := event.NewEventBus(nil, nil)
	defer bus.Stop()
	m, _ := newTestMirror(t, bus, time.Minute)

	snapshot, fresh, err := m.TrustState(testTarget)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.False(t, snapshot.Known)
	assert.Equal(t, 0, snapshot.ScamScore)
}

func TestMirrorReplayIdempotent(t *testing.T) {
	bus := event.NewEventBus(nil, nil)
	defer bus.Stop()
	m, applied := newTestMirror(t, bus, time.Minute)

	settlement := event.SettlementEvent{
		ProposalID:    7,
		TargetAddress: testTarget,
		Passed:        true,
		NewScamScore:  50,
		ConfirmedScam: true,
		Timestamp:     time.Now(),
	}
	// Applying the same event multiple times converges to the same state
	for range 3 {
		publishSettlement(bus, settlement)
		select {
		case <-applied:
		case <-time.After(2 * time.Second):
			t.Fatal("settlement not applied")
		}
	}

	snapshot, _, err := m.TrustState(testTarget)
	require.NoError(t, err)
	assert.Equal(t, 50, snapshot.ScamScore)
	assert.True(t, snapshot.IsConfirmedScam)
}

func TestMirrorStaleness(t *testing.T) {
	bus := event.NewEventBus(nil, nil)
	defer bus.Stop()
	m, applied := newTestMirror(t, bus, 50*time.Millisecond)

	publishSettlement(bus, event.SettlementEvent{
		ProposalID:    2,
		TargetAddress: testTarget,
		NewScamScore:  25,
		ConfirmedScam: true,
		Timestamp:     time.Now(),
	})
	select {
	case <-applied:
	case <-time.After(2 * time.Second):
		t.Fatal("settlement not applied")
	}

	// With no further events the heartbeat ages past the bound
	require.Eventually(t, func() bool {
		return !m.Fresh()
	}, 2*time.Second, 10*time.Millisecond)

	// The snapshot is still served, flagged as stale
	snapshot, fresh, err := m.TrustState(testTarget)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.True(t, snapshot.Known)
}

func TestMirrorStopped(t *testing.T) {
	bus := event.NewEventBus(nil, nil)
	defer bus.Stop()
	m, _ := newTestMirror(t, bus, time.Minute)
	require.NoError(t, m.Stop())
	// Stop is idempotent
	require.NoError(t, m.Stop())
	_, _, err := m.TrustState(testTarget)
	assert.ErrorIs(t, err, ErrStopped)
}
