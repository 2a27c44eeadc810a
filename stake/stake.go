// Copyright (c) 2026 The PoCS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stake implements the accounting core of the Proof of Contract
// Stake protocol: per-contract reputation/stake-score records, their
// delegation relationship, and the entry protocol that turns each contract
// invocation's gas expenditure into score accrual and eligibility events.
package stake

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/auguth/pocs/pocs"
)

// ErrNoStakeExists is returned when stake or delegate info is requested for
// a contract that was never bootstrapped. It signals a consistency violation
// between the two maps and fails the enclosing invocation.
var ErrNoStakeExists = errors.New("no stake exists")

// Ledger persists stake and delegate records keyed by contract address.
// Getters return nil without error when no record exists.
type Ledger interface {
	GetStakeInfo(contract pocs.Address) (*StakeInfo, error)
	GetDelegateInfo(contract pocs.Address) (*DelegateInfo, error)
	InsertStakeInfo(contract pocs.Address, info *StakeInfo) error
	InsertDelegateInfo(contract pocs.Address, info *DelegateInfo) error
	ContainsStakeInfo(contract pocs.Address) (bool, error)
}

// Staking is the stake accounting protocol. The surrounding execution engine
// invokes Stake once per contract invocation, serialized per contract key;
// block heights it supplies must be non-decreasing.
type Staking struct {
	ledger Ledger
	sink   Sink
	logger zerolog.Logger
}

// New create a new instance.
func New(ledger Ledger, sink Sink, logger zerolog.Logger) *Staking {
	return &Staking{
		ledger: ledger,
		sink:   sink,
		logger: logger,
	}
}

// Stake processes a stake request for a given contract.
//
// It is the sole entry point for stake accounting. If stake info already
// exists for the contract the request updates it, otherwise a fresh
// self-delegated entry is created.
func (s *Staking) Stake(blockNum uint32, origin, contract pocs.Address, gas uint64) error {
	exists, err := s.ledger.ContainsStakeInfo(contract)
	if err != nil {
		return err
	}
	if exists {
		return s.update(blockNum, contract, gas)
	}
	return s.bootstrap(blockNum, origin, contract)
}

// bootstrap initializes an empty stake and delegate entry for a contract.
// A freshly bootstrapped contract starts immature and unscored, so no events
// are emitted.
func (s *Staking) bootstrap(blockNum uint32, origin, contract pocs.Address) error {
	if err := s.ledger.InsertStakeInfo(contract, NewStakeInfo(blockNum)); err != nil {
		return err
	}
	if err := s.ledger.InsertDelegateInfo(contract, NewDelegateInfo(origin, blockNum)); err != nil {
		return err
	}
	metricStakeRequestCounter().AddWithLabel(1, map[string]string{"path": "bootstrap"})
	s.logger.Debug().
		Str("contract", contract.String()).
		Str("origin", origin.String()).
		Uint32("block", blockNum).
		Msg("stake entry bootstrapped")
	return nil
}

// update applies the stake transition for an already bootstrapped contract
// and emits events per the eligibility policy.
func (s *Staking) update(blockNum uint32, contract pocs.Address, gas uint64) error {
	delegateInfo, err := s.getDelegateInfo(contract)
	if err != nil {
		return err
	}
	stakeInfo, err := s.getStakeInfo(contract)
	if err != nil {
		return err
	}

	// Provide zero gas if contract isn't matured i.e., hasn't delegated at all.
	if !delegateInfo.IsMature() {
		gas = 0
	}

	newStakeInfo := stakeInfo.Update(blockNum, gas)
	if err := s.ledger.InsertStakeInfo(contract, newStakeInfo); err != nil {
		return err
	}
	metricStakeRequestCounter().AddWithLabel(1, map[string]string{"path": "update"})

	// No stake update due to zero gas, hence no stake event emission.
	if delegateInfo.IsMature() {
		s.emit(Staked{
			Contract:   contract,
			StakeScore: newStakeInfo.StakeScore.Clone(),
		})
	}

	// If contract passes criteria notify ready for staking.
	// Strict equality: the signal fires on the exact block reputation
	// reaches the minimum, and never again.
	if newStakeInfo.Reputation == MinReputation {
		s.emit(ReadyToStake{Contract: contract})
	}

	s.logger.Debug().
		Str("contract", contract.String()).
		Uint32("block", blockNum).
		Uint32("reputation", newStakeInfo.Reputation).
		Str("score", newStakeInfo.StakeScore.Dec()).
		Msg("stake updated")
	return nil
}

// Delegate sets the contract's delegation target. Passing the owner reverts
// the contract to self-delegation, pausing further score accrual.
func (s *Staking) Delegate(blockNum uint32, contract, delegate pocs.Address) error {
	delegateInfo, err := s.getDelegateInfo(contract)
	if err != nil {
		return err
	}
	if err := s.ledger.InsertDelegateInfo(contract, delegateInfo.Update(delegate, blockNum)); err != nil {
		return err
	}
	s.logger.Debug().
		Str("contract", contract.String()).
		Str("delegate", delegate.String()).
		Uint32("block", blockNum).
		Msg("stake delegated")
	return nil
}

// TransferOwnership transfers contract ownership independent of delegation.
func (s *Staking) TransferOwnership(blockNum uint32, contract, newOwner pocs.Address) error {
	delegateInfo, err := s.getDelegateInfo(contract)
	if err != nil {
		return err
	}
	return s.ledger.InsertDelegateInfo(contract, delegateInfo.UpdateOwner(newOwner, blockNum))
}

// ResetScore zeroes the contract's stake score, keeping its reputation.
// It exists for out-of-band lifecycle events; the caller decides when.
func (s *Staking) ResetScore(blockNum uint32, contract pocs.Address) error {
	stakeInfo, err := s.getStakeInfo(contract)
	if err != nil {
		return err
	}
	return s.ledger.InsertStakeInfo(contract, stakeInfo.Reset(blockNum))
}

// GetStakeInfo returns the contract's stake record, or ErrNoStakeExists.
func (s *Staking) GetStakeInfo(contract pocs.Address) (*StakeInfo, error) {
	return s.getStakeInfo(contract)
}

// GetDelegateInfo returns the contract's delegation record, or ErrNoStakeExists.
func (s *Staking) GetDelegateInfo(contract pocs.Address) (*DelegateInfo, error) {
	return s.getDelegateInfo(contract)
}

func (s *Staking) getStakeInfo(contract pocs.Address) (*StakeInfo, error) {
	stakeInfo, err := s.ledger.GetStakeInfo(contract)
	if err != nil {
		return nil, err
	}
	if stakeInfo == nil {
		return nil, errors.WithStack(ErrNoStakeExists)
	}
	return stakeInfo, nil
}

func (s *Staking) getDelegateInfo(contract pocs.Address) (*DelegateInfo, error) {
	delegateInfo, err := s.ledger.GetDelegateInfo(contract)
	if err != nil {
		return nil, err
	}
	if delegateInfo == nil {
		return nil, errors.WithStack(ErrNoStakeExists)
	}
	return delegateInfo, nil
}

func (s *Staking) emit(ev Event) {
	metricStakeEventCounter().AddWithLabel(1, map[string]string{"event": ev.Name()})
	if s.sink != nil {
		s.sink.Emit(ev)
	}
}
