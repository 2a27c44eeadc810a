// Copyright (c) 2026 The PoCS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/auguth/pocs/pocs"
)

// MinReputation is the minimum reputation required for a contract to
// participate in staking.
const MinReputation uint32 = 3

// reputationFactor is the fixed unit used for incrementing reputation and
// initializing it at contract instantiation.
const reputationFactor uint32 = 1

// maxStakeScore is the ceiling of the stake score accumulator. Scores clamp
// here instead of wrapping; the 128-bit range is part of the wire protocol.
var maxStakeScore = new(uint256.Int).Sub(
	new(uint256.Int).Lsh(uint256.NewInt(1), 128),
	uint256.NewInt(1),
)

// StakeInfo tracks the gas usage metrics of a contract for staking purposes.
//
// Reputation grows by one the first time the contract is used in a new block;
// StakeScore accumulates reputation-weighted gas. Field order is part of the
// storage encoding and must not change.
type StakeInfo struct {
	Reputation  uint32
	BlockHeight uint32
	StakeScore  *uint256.Int
}

// NewStakeInfo creates the initial StakeInfo of a freshly instantiated
// contract: unit reputation and a zero score.
func NewStakeInfo(blockHeight uint32) *StakeInfo {
	return &StakeInfo{
		Reputation:  reputationFactor,
		BlockHeight: blockHeight,
		StakeScore:  uint256.NewInt(0),
	}
}

// Update derives the successor record for an invocation that consumed `gas`
// at `blockHeight`.
//
// The reputation multiplier applies at most once per block: the first update
// observed in a new block weights gas by the current reputation and bumps the
// reputation, further updates within the same block accrue gas unweighted.
func (s *StakeInfo) Update(blockHeight uint32, gas uint64) *StakeInfo {
	gasCast := uint256.NewInt(gas)
	if blockHeight > s.BlockHeight {
		weighted := saturatingMul(gasCast, uint256.NewInt(uint64(s.Reputation)))
		return &StakeInfo{
			Reputation:  saturatingAddU32(s.Reputation, reputationFactor),
			BlockHeight: blockHeight,
			StakeScore:  saturatingAdd(s.StakeScore, weighted),
		}
	}
	return &StakeInfo{
		Reputation:  s.Reputation,
		BlockHeight: blockHeight,
		StakeScore:  saturatingAdd(s.StakeScore, gasCast),
	}
}

// Reset derives a record with the score forfeited. Reputation survives.
func (s *StakeInfo) Reset(blockHeight uint32) *StakeInfo {
	return &StakeInfo{
		Reputation:  s.Reputation,
		BlockHeight: blockHeight,
		StakeScore:  uint256.NewInt(0),
	}
}

// DelegateInfo represents the delegation details of a deployed contract.
// Field order is part of the storage encoding and must not change.
type DelegateInfo struct {
	Owner      pocs.Address
	DelegateTo pocs.Address
	DelegateAt uint32
}

// NewDelegateInfo creates the initial DelegateInfo where the deployer is both
// the owner and the delegate, i.e. the contract starts immature.
func NewDelegateInfo(owner pocs.Address, blockHeight uint32) *DelegateInfo {
	return &DelegateInfo{
		Owner:      owner,
		DelegateTo: owner,
		DelegateAt: blockHeight,
	}
}

// Update derives a record delegating the contract's stake to `delegate`.
// Passing the owner reverts the contract to self-delegation.
func (d *DelegateInfo) Update(delegate pocs.Address, blockHeight uint32) *DelegateInfo {
	return &DelegateInfo{
		Owner:      d.Owner,
		DelegateTo: delegate,
		DelegateAt: blockHeight,
	}
}

// UpdateOwner derives a record with ownership transferred to `newOwner`,
// leaving the delegation target untouched.
func (d *DelegateInfo) UpdateOwner(newOwner pocs.Address, blockHeight uint32) *DelegateInfo {
	return &DelegateInfo{
		Owner:      newOwner,
		DelegateTo: d.DelegateTo,
		DelegateAt: blockHeight,
	}
}

// IsMature returns whether the contract has delegated its stake to an account
// distinct from its owner. Only mature contracts accrue stake score.
func (d *DelegateInfo) IsMature() bool {
	return d.Owner != d.DelegateTo
}

func saturatingAdd(a, b *uint256.Int) *uint256.Int {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow || sum.Gt(maxStakeScore) {
		return maxStakeScore.Clone()
	}
	return sum
}

func saturatingMul(a, b *uint256.Int) *uint256.Int {
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow || product.Gt(maxStakeScore) {
		return maxStakeScore.Clone()
	}
	return product
}

func saturatingAddU32(a, b uint32) uint32 {
	if a > math.MaxUint32-b {
		return math.MaxUint32
	}
	return a + b
}
