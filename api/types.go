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

package api

import (
	"time"

	"github.com/blinklabs-io/vigil/database/models"
)

// ErrorResponse is the error body for all non-2xx responses
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// RootResponse is returned by GET /
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// ProposalRequest is the body for POST /v1/proposals
type ProposalRequest struct {
	TargetAddress string `json:"targetAddress"`
	Description   string `json:"description"`
	EvidenceRef   string `json:"evidenceRef"`
	Proposer      string `json:"proposer"`
}

// VoteRequest is the body for POST /v1/proposals/{id}/votes. Support is a
// pointer so a missing field is distinguishable from an explicit false.
type VoteRequest struct {
	Voter   string `json:"voter"`
	Support *bool  `json:"support"`
	Stake   uint64 `json:"stake"`
}

// ExecuteRequest is the body for POST /v1/proposals/{id}/execute
type ExecuteRequest struct {
	Caller string `json:"caller"`
}

// CreditRequest is the body for POST /v1/balances/credit
type CreditRequest struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

// ProposalResponse is the wire representation of a proposal
type ProposalResponse struct {
	ID            uint      `json:"id"`
	TargetAddress string    `json:"targetAddress"`
	Description   string    `json:"description"`
	EvidenceRef   string    `json:"evidenceRef,omitempty"`
	Proposer      string    `json:"proposer"`
	CreatedAt     time.Time `json:"createdAt"`
	Deadline      time.Time `json:"deadline"`
	ForPower      uint64    `json:"forPower"`
	AgainstPower  uint64    `json:"againstPower"`
	Status        string    `json:"status"`
	Outcome       string    `json:"outcome,omitempty"`
}

func proposalResponse(proposal *models.Proposal) ProposalResponse {
	resp := ProposalResponse{
		ID:            proposal.ID,
		TargetAddress: proposal.TargetAddress,
		Description:   proposal.Description,
		EvidenceRef:   proposal.EvidenceRef,
		Proposer:      proposal.Proposer,
		CreatedAt:     proposal.CreatedAt,
		Deadline:      proposal.Deadline,
		ForPower:      proposal.ForPower,
		AgainstPower:  proposal.AgainstPower,
		Status:        models.ProposalStatusString(proposal.Status),
	}
	if proposal.Status == models.ProposalStatusExecuted {
		resp.Outcome = models.ProposalStatusString(proposal.Outcome)
	}
	return resp
}

// VoteResponse is the wire representation of a cast vote
type VoteResponse struct {
	ProposalID uint      `json:"proposalId"`
	Voter      string    `json:"voter"`
	Support    bool      `json:"support"`
	Staked     uint64    `json:"staked"`
	Power      uint64    `json:"power"`
	CastAt     time.Time `json:"castAt"`
}

func voteResponse(vote *models.Vote) VoteResponse {
	return VoteResponse{
		ProposalID: vote.ProposalID,
		Voter:      vote.Voter,
		Support:    vote.Support,
		Staked:     vote.Staked,
		Power:      vote.Power,
		CastAt:     vote.CastAt,
	}
}

// BalanceResponse is the wire representation of a token balance
type BalanceResponse struct {
	Address   string `json:"address"`
	Spendable uint64 `json:"spendable"`
	Escrowed  uint64 `json:"escrowed"`
}

// ScoreResponse is returned by GET /v1/oracle/{address}/score. This is
// the oracle contract external protocols rely on.
type ScoreResponse struct {
	Address           string `json:"address"`
	Score             int    `json:"score"`
	IsConfirmedScam   bool   `json:"isConfirmedScam"`
	ConfidencePercent uint64 `json:"confidencePercent"`
}
