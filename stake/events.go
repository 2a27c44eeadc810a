// Copyright (c) 2026 The PoCS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"github.com/holiman/uint256"

	"github.com/auguth/pocs/pocs"
)

// Event topics.
const (
	TopicStaked       = "staked"
	TopicReadyToStake = "ready-to-stake"
)

// Event is a signal emitted by the staking protocol.
type Event interface {
	// Name returns the topic the event is published under.
	Name() string
}

// Staked signals that a delegated contract's stake score advanced.
type Staked struct {
	Contract   pocs.Address
	StakeScore *uint256.Int
}

// Name implements Event.
func (Staked) Name() string { return TopicStaked }

// ReadyToStake signals that a contract's reputation reached the minimum
// required for staking. It fires at most once per contract.
type ReadyToStake struct {
	Contract pocs.Address
}

// Name implements Event.
func (ReadyToStake) Name() string { return TopicReadyToStake }

// Sink receives events emitted by the staking protocol. Emission is
// fire-and-forget; the protocol never consumes a result.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(Event)

// Emit implements Sink.
func (f SinkFunc) Emit(ev Event) { f(ev) }
