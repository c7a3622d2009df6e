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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type mirrorMetrics struct {
	settlementsApplied  prometheus.Counter
	lastAppliedProposal prometheus.Gauge
}

func registerMirrorMetrics(
	promRegistry prometheus.Registerer,
) *mirrorMetrics {
	promautoFactory := promauto.With(promRegistry)
	return &mirrorMetrics{
		settlementsApplied: promautoFactory.NewCounter(
			prometheus.CounterOpts{
				Name: "vigil_mirror_settlements_applied_total",
				Help: "total settlement events applied to the mirror",
			},
		),
		lastAppliedProposal: promautoFactory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vigil_mirror_last_applied_proposal",
				Help: "ID of the last proposal applied to the mirror",
			},
		),
	}
}
