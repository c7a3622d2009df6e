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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/blinklabs-io/vigil/database/models"
	"github.com/blinklabs-io/vigil/ledger"
	"github.com/blinklabs-io/vigil/risk"
)

const apiVersion = "0.1.0"

// writeJSON writes a JSON response with the given status code
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response
func writeError(
	w http.ResponseWriter,
	status int,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

// writeLedgerError maps the ledger's named error conditions onto HTTP
// status codes: validation failures are 400, an affordable-but-absent
// balance is 422, state conflicts are 409, and unknown proposals are 404.
func (a *Api) writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidTarget),
		errors.Is(err, ledger.ErrInvalidProposer),
		errors.Is(err, ledger.ErrInvalidVoter),
		errors.Is(err, ledger.ErrInvalidStake):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInsufficientTokens):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledger.ErrProposalClosed),
		errors.Is(err, ledger.ErrDuplicateVote),
		errors.Is(err, ledger.ErrVotingStillOpen),
		errors.Is(err, ledger.ErrAlreadyExecuted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrProposalNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		a.logger.Error("request failed", "error", err)
		writeError(
			w,
			http.StatusInternalServerError,
			"internal server error",
		)
	}
}

// proposalIdFromPath parses the {id} path value
func proposalIdFromPath(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		return 0, errors.New("invalid proposal id")
	}
	return uint(id), nil
}

// handleRoot handles GET / and returns API metadata
func (a *Api) handleRoot(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, RootResponse{
		Name:    "vigil",
		Version: apiVersion,
	})
}

// handleHealth handles GET /health
func (a *Api) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy: true,
	})
}

// handleSubmitProposal handles POST /v1/proposals
func (a *Api) handleSubmitProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req ProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	proposal, err := a.node.SubmitProposal(
		req.TargetAddress,
		req.Description,
		req.EvidenceRef,
		req.Proposer,
	)
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, proposalResponse(proposal))
}

// handleListProposals handles GET /v1/proposals with optional target and
// status filters
func (a *Api) handleListProposals(
	w http.ResponseWriter,
	r *http.Request,
) {
	var status *uint8
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		parsed, ok := parseProposalStatus(statusParam)
		if !ok {
			writeError(
				w,
				http.StatusBadRequest,
				"invalid status filter",
			)
			return
		}
		status = &parsed
	}
	proposals, err := a.node.GetProposals(
		r.URL.Query().Get("target"),
		status,
	)
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	resp := make([]ProposalResponse, 0, len(proposals))
	for i := range proposals {
		resp = append(resp, proposalResponse(&proposals[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseProposalStatus(s string) (uint8, bool) {
	switch s {
	case "active":
		return models.ProposalStatusActive, true
	case "passed":
		return models.ProposalStatusPassed, true
	case "rejected":
		return models.ProposalStatusRejected, true
	case "executed":
		return models.ProposalStatusExecuted, true
	default:
		return 0, false
	}
}

// handleGetProposal handles GET /v1/proposals/{id}
func (a *Api) handleGetProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := proposalIdFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	proposal, err := a.node.GetProposal(id)
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proposalResponse(proposal))
}

// handleCastVote handles POST /v1/proposals/{id}/votes
func (a *Api) handleCastVote(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := proposalIdFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Support == nil {
		writeError(w, http.StatusBadRequest, "support is required")
		return
	}
	vote, err := a.node.CastVote(id, req.Voter, *req.Support, req.Stake)
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, voteResponse(vote))
}

// handleExecuteProposal handles POST /v1/proposals/{id}/execute. The body
// is optional; settlement is callable by anyone.
func (a *Api) handleExecuteProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := proposalIdFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil &&
		!errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	proposal, err := a.node.ExecuteProposal(id, req.Caller)
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proposalResponse(proposal))
}

// handleThreatReport handles GET /v1/oracle/{address}
func (a *Api) handleThreatReport(
	w http.ResponseWriter,
	r *http.Request,
) {
	report, err := a.node.GetThreatReport(r.PathValue("address"))
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleThreatScore handles GET /v1/oracle/{address}/score
func (a *Api) handleThreatScore(
	w http.ResponseWriter,
	r *http.Request,
) {
	report, err := a.node.GetThreatReport(r.PathValue("address"))
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ScoreResponse{
		Address:           report.Address,
		Score:             report.Score,
		IsConfirmedScam:   report.IsConfirmedScam,
		ConfidencePercent: report.ConfidencePercent,
	})
}

// handleVoterStats handles GET /v1/voters/{address}
func (a *Api) handleVoterStats(
	w http.ResponseWriter,
	r *http.Request,
) {
	stats, err := a.node.GetVoterStats(r.PathValue("address"))
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleAssess handles POST /v1/assess
func (a *Api) handleAssess(
	w http.ResponseWriter,
	r *http.Request,
) {
	var tx risk.CandidateTx
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if tx.ToAddress == "" {
		writeError(w, http.StatusBadRequest, "toAddress is required")
		return
	}
	result, err := a.node.AssessTransaction(r.Context(), tx)
	if err != nil {
		if errors.Is(err, risk.ErrCollaboratorUnavailable) {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		a.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAssessStats handles GET /v1/assess/stats
func (a *Api) handleAssessStats(
	w http.ResponseWriter,
	_ *http.Request,
) {
	stats, err := a.node.AssessmentStats()
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleCreditTokens handles POST /v1/balances/credit
func (a *Api) handleCreditTokens(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount == 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	balance, err := a.node.CreditTokens(req.Address, req.Amount)
	if err != nil {
		a.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{
		Address:   balance.Address,
		Spendable: balance.Spendable,
		Escrowed:  balance.Escrowed,
	})
}
