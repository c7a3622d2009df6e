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

package vigil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithDatabasePath("/tmp/vigil-test"),
		WithApiListenAddress(":9090"),
		WithMlEndpoint("http://localhost:5000/predict"),
		WithMlFallbackLabel("Suspicious"),
		WithVotingWindow(24*time.Hour),
		WithMirrorStalenessBound(time.Minute),
	)
	assert.Equal(t, "/tmp/vigil-test", cfg.dataDir)
	assert.Equal(t, ":9090", cfg.apiListenAddress)
	assert.Equal(t, "http://localhost:5000/predict", cfg.mlEndpoint)
	assert.Equal(t, "Suspicious", cfg.mlFallbackLabel)
	assert.Equal(t, 24*time.Hour, cfg.votingWindow)
	assert.Equal(t, time.Minute, cfg.mirrorStalenessBound)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		valid bool
	}{
		{
			name: "endpoint only",
			cfg: NewConfig(
				WithMlEndpoint("http://localhost:5000/predict"),
			),
			valid: true,
		},
		{
			name:  "fallback only",
			cfg:   NewConfig(WithMlFallbackLabel("Suspicious")),
			valid: true,
		},
		{
			name:  "neither endpoint nor fallback",
			cfg:   NewConfig(),
			valid: false,
		},
		{
			name: "unknown fallback label",
			cfg: NewConfig(
				WithMlEndpoint("http://localhost:5000/predict"),
				WithMlFallbackLabel("bogus"),
			),
			valid: false,
		},
		{
			name: "negative voting window",
			cfg: NewConfig(
				WithMlFallbackLabel("Non-Fraud"),
				WithVotingWindow(-time.Hour),
			),
			valid: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := New(tt.cfg)
			if tt.valid {
				require.NoError(t, err)
				assert.NotNil(t, node)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
