// Copyright (c) 2026 The PoCS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auguth/pocs/pocs"
)

// memLedger is a map-backed stand-in for the persistent ledger.
type memLedger struct {
	stakes    map[pocs.Address]*StakeInfo
	delegates map[pocs.Address]*DelegateInfo
}

func newMemLedger() *memLedger {
	return &memLedger{
		stakes:    make(map[pocs.Address]*StakeInfo),
		delegates: make(map[pocs.Address]*DelegateInfo),
	}
}

func (l *memLedger) GetStakeInfo(contract pocs.Address) (*StakeInfo, error) {
	return l.stakes[contract], nil
}

func (l *memLedger) GetDelegateInfo(contract pocs.Address) (*DelegateInfo, error) {
	return l.delegates[contract], nil
}

func (l *memLedger) InsertStakeInfo(contract pocs.Address, info *StakeInfo) error {
	l.stakes[contract] = info
	return nil
}

func (l *memLedger) InsertDelegateInfo(contract pocs.Address, info *DelegateInfo) error {
	l.delegates[contract] = info
	return nil
}

func (l *memLedger) ContainsStakeInfo(contract pocs.Address) (bool, error) {
	_, ok := l.stakes[contract]
	return ok, nil
}

type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) Emit(ev Event) {
	r.events = append(r.events, ev)
}

func (r *eventRecorder) drain() []Event {
	evs := r.events
	r.events = nil
	return evs
}

func newTestStaking() (*Staking, *memLedger, *eventRecorder) {
	ledger := newMemLedger()
	recorder := &eventRecorder{}
	return New(ledger, recorder, zerolog.Nop()), ledger, recorder
}

func TestStakeBootstrap(t *testing.T) {
	stk, ledger, recorder := newTestStaking()
	origin := pocs.BytesToAddress([]byte("origin"))
	contract := pocs.BytesToAddress([]byte("contract"))

	require.NoError(t, stk.Stake(10, origin, contract, 5000))

	stakeInfo := ledger.stakes[contract]
	require.NotNil(t, stakeInfo)
	assert.Equal(t, uint32(1), stakeInfo.Reputation)
	assert.Equal(t, uint32(10), stakeInfo.BlockHeight)
	assert.True(t, stakeInfo.StakeScore.IsZero())

	delegateInfo := ledger.delegates[contract]
	require.NotNil(t, delegateInfo)
	assert.Equal(t, origin, delegateInfo.Owner)
	assert.Equal(t, origin, delegateInfo.DelegateTo)
	assert.Equal(t, uint32(10), delegateInfo.DelegateAt)

	// bootstrapping emits nothing
	assert.Empty(t, recorder.events)
}

func TestStakeMaturityGating(t *testing.T) {
	stk, ledger, recorder := newTestStaking()
	origin := pocs.BytesToAddress([]byte("origin"))
	contract := pocs.BytesToAddress([]byte("contract"))

	require.NoError(t, stk.Stake(10, origin, contract, 5000))

	// while self-delegated, any amount of gas leaves the score at zero
	for i, h := range []uint32{10, 11, 11, 12} {
		require.NoError(t, stk.Stake(h, origin, contract, 1_000_000), "call %d", i)
		assert.True(t, ledger.stakes[contract].StakeScore.IsZero())
	}
	// and no Staked event is ever emitted
	for _, ev := range recorder.events {
		assert.NotEqual(t, TopicStaked, ev.Name())
	}
}

// The walkthrough of a contract's life from bootstrap through delegation to
// its first scored update.
func TestStakeScenarioLifecycle(t *testing.T) {
	stk, ledger, recorder := newTestStaking()
	origin := pocs.BytesToAddress([]byte("origin"))
	contract := pocs.BytesToAddress([]byte("contract"))
	validator := pocs.BytesToAddress([]byte("validator"))

	// block 10: first invocation bootstraps
	require.NoError(t, stk.Stake(10, origin, contract, 5))
	assert.Empty(t, recorder.drain())

	// block 11: still self-delegated, gas forced to zero; the new-block
	// branch still bumps reputation
	require.NoError(t, stk.Stake(11, origin, contract, 7))
	info := ledger.stakes[contract]
	assert.Equal(t, uint32(2), info.Reputation)
	assert.True(t, info.StakeScore.IsZero())
	assert.Empty(t, recorder.drain())

	// block 12: delegate to a validator, then invoke
	require.NoError(t, stk.Delegate(12, contract, validator))
	require.NoError(t, stk.Stake(12, origin, contract, 10))

	info = ledger.stakes[contract]
	assert.Equal(t, uint32(3), info.Reputation)
	assert.Equal(t, uint256.NewInt(20), info.StakeScore) // 0 + 10*2

	events := recorder.drain()
	require.Len(t, events, 2)
	assert.Equal(t, Staked{Contract: contract, StakeScore: uint256.NewInt(20)}, events[0])
	assert.Equal(t, ReadyToStake{Contract: contract}, events[1])
}

// Two invocations of a delegated contract within one block: the first takes
// the new-block branch, the second accrues unweighted and must not
// re-trigger ReadyToStake.
func TestStakeScenarioSameBlock(t *testing.T) {
	stk, ledger, recorder := newTestStaking()
	owner := pocs.BytesToAddress([]byte("owner"))
	contract := pocs.BytesToAddress([]byte("contract"))
	validator := pocs.BytesToAddress([]byte("validator"))

	ledger.stakes[contract] = &StakeInfo{Reputation: 2, BlockHeight: 19, StakeScore: uint256.NewInt(100)}
	ledger.delegates[contract] = &DelegateInfo{Owner: owner, DelegateTo: validator, DelegateAt: 15}

	require.NoError(t, stk.Stake(20, owner, contract, 4))
	info := ledger.stakes[contract]
	assert.Equal(t, uint32(3), info.Reputation)
	assert.Equal(t, uint256.NewInt(108), info.StakeScore)
	events := recorder.drain()
	require.Len(t, events, 2)
	assert.Equal(t, Staked{Contract: contract, StakeScore: uint256.NewInt(108)}, events[0])
	assert.Equal(t, ReadyToStake{Contract: contract}, events[1])

	require.NoError(t, stk.Stake(20, owner, contract, 6))
	info = ledger.stakes[contract]
	assert.Equal(t, uint32(3), info.Reputation)
	assert.Equal(t, uint256.NewInt(114), info.StakeScore)
	events = recorder.drain()
	require.Len(t, events, 1)
	assert.Equal(t, Staked{Contract: contract, StakeScore: uint256.NewInt(114)}, events[0])
}

func TestStakeReadyToStakeEdgeTriggered(t *testing.T) {
	stk, _, recorder := newTestStaking()
	owner := pocs.BytesToAddress([]byte("owner"))
	contract := pocs.BytesToAddress([]byte("contract"))
	validator := pocs.BytesToAddress([]byte("validator"))

	require.NoError(t, stk.Stake(1, owner, contract, 10))
	require.NoError(t, stk.Delegate(1, contract, validator))

	ready := 0
	for h := uint32(2); h <= 10; h++ {
		require.NoError(t, stk.Stake(h, owner, contract, 10))
		for _, ev := range recorder.drain() {
			if ev.Name() == TopicReadyToStake {
				ready++
				// reputation transitions to exactly MinReputation here
				info, err := stk.GetStakeInfo(contract)
				require.NoError(t, err)
				assert.Equal(t, MinReputation, info.Reputation)
			}
		}
	}
	assert.Equal(t, 1, ready)
}

func TestStakeNoStakeExists(t *testing.T) {
	stk, ledger, _ := newTestStaking()
	origin := pocs.BytesToAddress([]byte("origin"))
	contract := pocs.BytesToAddress([]byte("contract"))

	_, err := stk.GetStakeInfo(contract)
	assert.True(t, errors.Is(err, ErrNoStakeExists))
	_, err = stk.GetDelegateInfo(contract)
	assert.True(t, errors.Is(err, ErrNoStakeExists))

	// a stake entry without its delegate counterpart is a consistency
	// violation and must fail the invocation
	ledger.stakes[contract] = NewStakeInfo(1)
	err = stk.Stake(2, origin, contract, 10)
	assert.True(t, errors.Is(err, ErrNoStakeExists))
}

func TestStakeDelegateAndRevert(t *testing.T) {
	stk, ledger, recorder := newTestStaking()
	owner := pocs.BytesToAddress([]byte("owner"))
	contract := pocs.BytesToAddress([]byte("contract"))
	validator := pocs.BytesToAddress([]byte("validator"))

	require.NoError(t, stk.Stake(5, owner, contract, 100))
	require.NoError(t, stk.Delegate(6, contract, validator))

	require.NoError(t, stk.Stake(7, owner, contract, 100))
	assert.Equal(t, uint256.NewInt(100), ledger.stakes[contract].StakeScore) // 100*1

	// revert to self-delegation: accrual pauses again
	require.NoError(t, stk.Delegate(8, contract, owner))
	recorder.drain()

	// gas is gated to zero, but the new-block branch still takes
	// reputation to exactly 3, which signals readiness even while immature
	require.NoError(t, stk.Stake(9, owner, contract, 100))
	assert.Equal(t, uint256.NewInt(100), ledger.stakes[contract].StakeScore)
	events := recorder.drain()
	require.Len(t, events, 1)
	assert.Equal(t, ReadyToStake{Contract: contract}, events[0])
}

func TestStakeTransferOwnership(t *testing.T) {
	stk, ledger, _ := newTestStaking()
	owner := pocs.BytesToAddress([]byte("owner"))
	newOwner := pocs.BytesToAddress([]byte("new-owner"))
	contract := pocs.BytesToAddress([]byte("contract"))

	require.NoError(t, stk.Stake(5, owner, contract, 100))
	require.NoError(t, stk.TransferOwnership(6, contract, newOwner))

	delegateInfo := ledger.delegates[contract]
	assert.Equal(t, newOwner, delegateInfo.Owner)
	assert.Equal(t, owner, delegateInfo.DelegateTo)
	assert.Equal(t, uint32(6), delegateInfo.DelegateAt)

	// owner and delegate now differ, so the contract counts as mature
	require.NoError(t, stk.Stake(7, owner, contract, 10))
	assert.Equal(t, uint256.NewInt(10), ledger.stakes[contract].StakeScore)
}

func TestStakeResetScore(t *testing.T) {
	stk, ledger, _ := newTestStaking()
	owner := pocs.BytesToAddress([]byte("owner"))
	contract := pocs.BytesToAddress([]byte("contract"))
	validator := pocs.BytesToAddress([]byte("validator"))

	require.NoError(t, stk.Stake(5, owner, contract, 100))
	require.NoError(t, stk.Delegate(6, contract, validator))
	require.NoError(t, stk.Stake(7, owner, contract, 100))
	require.NotEqual(t, uint64(0), ledger.stakes[contract].StakeScore.Uint64())

	rep := ledger.stakes[contract].Reputation
	require.NoError(t, stk.ResetScore(8, contract))

	info := ledger.stakes[contract]
	assert.True(t, info.StakeScore.IsZero())
	assert.Equal(t, rep, info.Reputation)
	assert.Equal(t, uint32(8), info.BlockHeight)
}

func TestStakeNilSink(t *testing.T) {
	ledger := newMemLedger()
	stk := New(ledger, nil, zerolog.Nop())
	owner := pocs.BytesToAddress([]byte("owner"))
	contract := pocs.BytesToAddress([]byte("contract"))
	validator := pocs.BytesToAddress([]byte("validator"))

	require.NoError(t, stk.Stake(1, owner, contract, 10))
	require.NoError(t, stk.Delegate(1, contract, validator))
	require.NoError(t, stk.Stake(2, owner, contract, 10))
}
