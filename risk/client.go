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

package risk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultPredictTimeout bounds every call to the ML collaborator
const DefaultPredictTimeout = 10 * time.Second

// PredictRequest is the payload sent to the ML collaborator. The
// collaborator is consumed as a black box; only its categorical label is
// used.
type PredictRequest struct {
	FromAddress           string  `json:"from_address"`
	ToAddress             string  `json:"to_address"`
	TransactionValue      float64 `json:"transaction_value"`
	GasPrice              float64 `json:"gas_price"`
	IsContractInteraction bool    `json:"is_contract_interaction"`
	AccHolder             string  `json:"acc_holder"`
	Features              []any   `json:"features"`
}

type predictResponse struct {
	Prediction string `json:"prediction"`
}

// ClientConfig describes the ML client configuration
type ClientConfig struct {
	Logger *slog.Logger
	// Endpoint is the predict URL of the ML collaborator
	Endpoint string
	// Timeout bounds each predict call (DefaultPredictTimeout when zero)
	Timeout time.Duration
}

// Client calls the external ML fraud classifier. The classifier is
// untrusted and possibly unavailable; every error is returned to the
// caller so it can apply its configured fallback instead of hanging.
type Client struct {
	config     ClientConfig
	logger     *slog.Logger
	httpClient *http.Client
}

// NewClient creates a new ML collaborator client
func NewClient(cfg ClientConfig) *Client {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultPredictTimeout
	}
	return &Client{
		config: cfg,
		logger: cfg.Logger.With("component", "ml-client"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Predict sends the candidate transaction to the classifier and returns
// its label
func (c *Client) Predict(
	ctx context.Context,
	request PredictRequest,
) (Label, error) {
	if request.Features == nil {
		request.Features = emptyFeatureVector()
	}
	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshal predict request: %w", err)
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.config.Endpoint,
		bytes.NewReader(payload),
	)
	if err != nil {
		return "", fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call ML model: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"ML model returned non-OK status: %d",
			resp.StatusCode,
		)
	}
	var predictResp predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&predictResp); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}
	label, err := ParseLabel(predictResp.Prediction)
	if err != nil {
		return "", fmt.Errorf(
			"%w: %q",
			ErrUnknownLabel,
			predictResp.Prediction,
		)
	}
	return label, nil
}

// emptyFeatureVector returns the 18-position feature vector the deployed
// model expects, zeroed. Positions 16 and 17 are token-type strings.
func emptyFeatureVector() []any {
	features := make([]any, 18)
	for i := range 16 {
		features[i] = 0.0
	}
	features[16] = ""
	features[17] = ""
	return features
}
