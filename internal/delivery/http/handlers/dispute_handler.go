package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
)

type DisputeHandler struct {
	disputeUsecase usecase.DisputeUsecase
}

func NewDisputeHandler(disputeUsecase usecase.DisputeUsecase) *DisputeHandler {
	return &DisputeHandler{disputeUsecase: disputeUsecase}
}

func (h *DisputeHandler) OpenDispute(w http.ResponseWriter, r *http.Request) {
	escrowID, err := escrowIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid escrow id"})
		return
	}
	var request dto.OpenDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	if err := h.disputeUsecase.OpenDispute(r.Context(), caller, escrowID, request.Reason); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *DisputeHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	escrowID, err := escrowIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid escrow id"})
		return
	}
	var request dto.ResolveDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	if err := h.disputeUsecase.ResolveDispute(r.Context(), caller, escrowID, request.Winner); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *DisputeHandler) EscalateDispute(w http.ResponseWriter, r *http.Request) {
	escrowID, err := escrowIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid escrow id"})
		return
	}
	var request dto.EscalateDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	escalation, err := h.disputeUsecase.EscalateDispute(r.Context(), caller, escrowID, request.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.ToEscalationResponse(escalation))
}

func (h *DisputeHandler) AssignSeniorArbiter(w http.ResponseWriter, r *http.Request) {
	escrowID, err := escrowIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid escrow id"})
		return
	}
	var request dto.AssignSeniorArbiterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	if err := h.disputeUsecase.AssignSeniorArbiter(r.Context(), caller, escrowID, request.Arbiter); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *DisputeHandler) ResolveEscalatedDispute(w http.ResponseWriter, r *http.Request) {
	escrowID, err := escrowIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid escrow id"})
		return
	}
	var request dto.ResolveDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	if err := h.disputeUsecase.ResolveEscalatedDispute(r.Context(), caller, escrowID, request.Winner); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *DisputeHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	escrowID, err := escrowIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid escrow id"})
		return
	}
	var request dto.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	if err := h.disputeUsecase.CastArbiterVote(r.Context(), caller, escrowID, request.VoteForBuyer); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *DisputeHandler) GetEscalation(w http.ResponseWriter, r *http.Request) {
	escrowID, err := escrowIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid escrow id"})
		return
	}
	escalation, err := h.disputeUsecase.GetEscalationByEscrowID(escrowID)
	if err != nil {
		respondError(w, err)
		return
	}
	if escalation == nil {
		respondJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "no escalation for escrow"})
		return
	}
	respondJSON(w, http.StatusOK, dto.ToEscalationResponse(escalation))
}

func (h *DisputeHandler) GetVoteResults(w http.ResponseWriter, r *http.Request) {
	escrowID, err := escrowIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid escrow id"})
		return
	}
	tally, err := h.disputeUsecase.GetVoteResults(escrowID)
	if err != nil {
		respondError(w, err)
		return
	}
	response := dto.VoteTallyResponse{EscrowID: escrowID}
	if tally != nil {
		response.BuyerVotes = tally.BuyerVotes
		response.SellerVotes = tally.SellerVotes
		response.TotalVotes = tally.TotalVotes
	}
	respondJSON(w, http.StatusOK, response)
}
