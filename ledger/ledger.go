// Copyright (c) 2026 The PoCS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger persists stake and delegate records in a key-value store.
//
// Records are RLP encoded with a fixed field layout; the encoding is part of
// consensus-relevant chain state and must stay stable.
package ledger

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/auguth/pocs/kv"
	"github.com/auguth/pocs/pocs"
	"github.com/auguth/pocs/stake"
)

var _ stake.Ledger = (*Ledger)(nil)

var (
	stakeInfoSpace    = []byte("stake-info")
	delegateInfoSpace = []byte("delegate-info")
)

func stakeInfoKey(contract pocs.Address) []byte {
	return pocs.Blake2b(stakeInfoSpace, contract.Bytes()).Bytes()
}

func delegateInfoKey(contract pocs.Address) []byte {
	return pocs.Blake2b(delegateInfoSpace, contract.Bytes()).Bytes()
}

// Ledger maps contract addresses to their stake and delegate records.
type Ledger struct {
	store kv.GetPutter
}

// New create a new instance over the given store.
func New(store kv.GetPutter) *Ledger {
	return &Ledger{store: store}
}

// GetStakeInfo returns the contract's stake record, or nil if absent.
func (l *Ledger) GetStakeInfo(contract pocs.Address) (*stake.StakeInfo, error) {
	data, err := l.store.Get(stakeInfoKey(contract))
	if err != nil {
		if l.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get stake info")
	}
	var info stake.StakeInfo
	if err := rlp.DecodeBytes(data, &info); err != nil {
		return nil, errors.Wrap(err, "decode stake info")
	}
	return &info, nil
}

// GetDelegateInfo returns the contract's delegation record, or nil if absent.
func (l *Ledger) GetDelegateInfo(contract pocs.Address) (*stake.DelegateInfo, error) {
	data, err := l.store.Get(delegateInfoKey(contract))
	if err != nil {
		if l.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get delegate info")
	}
	var info stake.DelegateInfo
	if err := rlp.DecodeBytes(data, &info); err != nil {
		return nil, errors.Wrap(err, "decode delegate info")
	}
	return &info, nil
}

// InsertStakeInfo writes the contract's stake record.
func (l *Ledger) InsertStakeInfo(contract pocs.Address, info *stake.StakeInfo) error {
	data, err := rlp.EncodeToBytes(info)
	if err != nil {
		return errors.Wrap(err, "encode stake info")
	}
	return errors.Wrap(l.store.Put(stakeInfoKey(contract), data), "put stake info")
}

// InsertDelegateInfo writes the contract's delegation record.
func (l *Ledger) InsertDelegateInfo(contract pocs.Address, info *stake.DelegateInfo) error {
	data, err := rlp.EncodeToBytes(info)
	if err != nil {
		return errors.Wrap(err, "encode delegate info")
	}
	return errors.Wrap(l.store.Put(delegateInfoKey(contract), data), "put delegate info")
}

// ContainsStakeInfo returns whether a stake record exists for the contract.
func (l *Ledger) ContainsStakeInfo(contract pocs.Address) (bool, error) {
	has, err := l.store.Has(stakeInfoKey(contract))
	return has, errors.Wrap(err, "contains stake info")
}
