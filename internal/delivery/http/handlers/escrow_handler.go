package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	escrowdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/escrow"
	"github.com/go-chi/chi/v5"
)

type EscrowHandler struct {
	escrowUsecase usecase.EscrowUsecase
}

func NewEscrowHandler(escrowUsecase usecase.EscrowUsecase) *EscrowHandler {
	return &EscrowHandler{escrowUsecase: escrowUsecase}
}

func (h *EscrowHandler) CreateEscrow(w http.ResponseWriter, r *http.Request) {
	var request dto.CreateEscrowRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	escrow, err := h.escrowUsecase.CreateEscrow(r.Context(), caller, &escrowdto.CreateEscrowInput{
		Seller:      request.Seller,
		Amount:      request.Amount,
		Description: request.Description,
		Duration:    time.Duration(request.DurationSeconds) * time.Second,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.ToEscrowResponse(escrow))
}

func (h *EscrowHandler) FundEscrow(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.escrowUsecase.FundEscrow)
}

func (h *EscrowHandler) ReleaseEscrow(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.escrowUsecase.ReleaseEscrow)
}

func (h *EscrowHandler) RefundEscrow(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.escrowUsecase.RefundEscrow)
}

func (h *EscrowHandler) ReleaseRemaining(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.escrowUsecase.ReleaseRemaining)
}

func (h *EscrowHandler) RefundRemaining(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.escrowUsecase.RefundRemaining)
}

func (h *EscrowHandler) PartialRefund(w http.ResponseWriter, r *http.Request) {
	escrowID, err := escrowIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid escrow id"})
		return
	}
	var request dto.PartialRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	if err := h.escrowUsecase.PartialRefund(r.Context(), caller, &escrowdto.PartialRefundInput{
		EscrowID:     escrowID,
		RefundAmount: request.Amount,
		Reason:       request.Reason,
	}); err != nil {
		respondError(w, err)
		return
	}
	h.respondEscrow(w, escrowID)
}

func (h *EscrowHandler) GetEscrow(w http.ResponseWriter, r *http.Request) {
	escrowID, err := escrowIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid escrow id"})
		return
	}
	h.respondEscrow(w, escrowID)
}

func (h *EscrowHandler) GetEscrowsByParticipant(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	escrows, total, err := h.escrowUsecase.GetEscrowsByParticipant(address, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	response := dto.EscrowListResponse{
		Escrows: make([]*dto.EscrowResponse, len(escrows)),
		Total:   total,
	}
	for i, escrow := range escrows {
		response.Escrows[i] = dto.ToEscrowResponse(escrow)
	}
	respondJSON(w, http.StatusOK, response)
}

// transition runs one id-addressed state transition and echoes the updated
// escrow back.
func (h *EscrowHandler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, caller string, escrowID uint64) error) {
	escrowID, err := escrowIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid escrow id"})
		return
	}
	caller := middleware.CallerFromContext(r.Context())
	if err := op(r.Context(), caller, escrowID); err != nil {
		respondError(w, err)
		return
	}
	h.respondEscrow(w, escrowID)
}

func (h *EscrowHandler) respondEscrow(w http.ResponseWriter, escrowID uint64) {
	escrow, err := h.escrowUsecase.GetEscrowByID(escrowID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.ToEscrowResponse(escrow))
}

func escrowIDParam(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
}
