// Copyright (c) 2026 The PoCS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bus bridges staking events to an in-process event bus, letting
// external components observe Staked/ReadyToStake signals without the core
// knowing about them.
package bus

import (
	evbus "github.com/asaskevich/EventBus"

	"github.com/auguth/pocs/stake"
)

var _ stake.Sink = (*Bus)(nil)

// Bus publishes staking events on an EventBus, topic-keyed by event name.
type Bus struct {
	bus evbus.Bus
}

// New create a new instance with a private underlying bus.
func New() *Bus {
	return &Bus{bus: evbus.New()}
}

// Emit implements stake.Sink. Publication is fire-and-forget; delivery
// mode follows how subscribers registered.
func (b *Bus) Emit(ev stake.Event) {
	b.bus.Publish(ev.Name(), ev)
}

// Subscribe registers fn for events published under topic.
// fn's signature must accept a single stake.Event argument.
func (b *Bus) Subscribe(topic string, fn any) error {
	return b.bus.Subscribe(topic, fn)
}

// Unsubscribe removes fn from topic.
func (b *Bus) Unsubscribe(topic string, fn any) error {
	return b.bus.Unsubscribe(topic, fn)
}

// WaitAsync blocks until all asynchronous deliveries complete.
func (b *Bus) WaitAsync() {
	b.bus.WaitAsync()
}
