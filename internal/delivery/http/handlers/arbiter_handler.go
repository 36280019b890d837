package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	"github.com/go-chi/chi/v5"
)

type ArbiterHandler struct {
	arbiterUsecase usecase.ArbiterUsecase
}

func NewArbiterHandler(arbiterUsecase usecase.ArbiterUsecase) *ArbiterHandler {
	return &ArbiterHandler{arbiterUsecase: arbiterUsecase}
}

func (h *ArbiterHandler) AddArbiter(w http.ResponseWriter, r *http.Request) {
	var request dto.AddArbiterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}
	caller := middleware.CallerFromContext(r.Context())
	if err := h.arbiterUsecase.AddArbiter(caller, request.Address); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *ArbiterHandler) RemoveArbiter(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if err := h.arbiterUsecase.RemoveArbiter(caller, chi.URLParam(r, "address")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *ArbiterHandler) AuthorizeSeniorArbiter(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if err := h.arbiterUsecase.AuthorizeSeniorArbiter(caller, chi.URLParam(r, "address")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *ArbiterHandler) RevokeSeniorArbiter(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	if err := h.arbiterUsecase.RevokeSeniorArbiter(caller, chi.URLParam(r, "address")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *ArbiterHandler) GetArbiter(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	isArbiter, err := h.arbiterUsecase.IsArbiter(address)
	if err != nil {
		respondError(w, err)
		return
	}
	isSenior, err := h.arbiterUsecase.IsSeniorArbiter(address)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"address":    address,
		"is_arbiter": isArbiter,
		"is_senior":  isSenior,
	})
}
