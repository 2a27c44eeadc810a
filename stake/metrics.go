// Copyright (c) 2026 The PoCS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import "github.com/auguth/pocs/metrics"

var (
	metricStakeRequestCounter = metrics.LazyLoadCounterVec("stake_request_count", []string{"path"})
	metricStakeEventCounter   = metrics.LazyLoadCounterVec("stake_event_count", []string{"event"})
)
