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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type ledgerMetrics struct {
	proposalsSubmitted prometheus.Counter
	votesCast          prometheus.Counter
	tokensEscrowed     prometheus.Counter
	settlements        *prometheus.CounterVec
}

func (l *Ledger) initMetrics(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	l.metrics = &ledgerMetrics{
		proposalsSubmitted: promautoFactory.NewCounter(
			prometheus.CounterOpts{
				Name: "vigil_ledger_proposals_submitted_total",
				Help: "total proposals submitted",
			},
		),
		votesCast: promautoFactory.NewCounter(
			prometheus.CounterOpts{
				Name: "vigil_ledger_votes_cast_total",
				Help: "total votes cast",
			},
		),
		tokensEscrowed: promautoFactory.NewCounter(
			prometheus.CounterOpts{
				Name: "vigil_ledger_tokens_escrowed_total",
				Help: "total tokens moved into proposal escrow",
			},
		),
		settlements: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vigil_ledger_settlements_total",
				Help: "total proposal settlements by outcome",
			},
			[]string{"outcome"},
		),
	}
}
