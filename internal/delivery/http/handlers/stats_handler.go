package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	"github.com/go-chi/chi/v5"
)

type StatsHandler struct {
	statsUsecase usecase.StatsUsecase
}

func NewStatsHandler(statsUsecase usecase.StatsUsecase) *StatsHandler {
	return &StatsHandler{statsUsecase: statsUsecase}
}

func (h *StatsHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	stats, err := h.statsUsecase.GetUserStats(address)
	if err != nil {
		respondError(w, err)
		return
	}
	if stats == nil {
		respondJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "no activity for address"})
		return
	}
	respondJSON(w, http.StatusOK, dto.UserStatsResponse{
		Address:          stats.Address,
		EscrowsCreated:   stats.EscrowsCreated,
		EscrowsCompleted: stats.EscrowsCompleted,
		EscrowsDisputed:  stats.EscrowsDisputed,
		TotalVolume:      stats.TotalVolume,
		FeesPaid:         stats.FeesPaid,
		FirstActivityAt:  stats.FirstActivityAt,
		LastActivityAt:   stats.LastActivityAt,
	})
}

func (h *StatsHandler) GetProtocolStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsUsecase.GetProtocolStats()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.ProtocolStatsResponse{
		TotalEscrows:       stats.TotalEscrows,
		TotalVolume:        stats.TotalVolume,
		TotalFeesCollected: stats.TotalFeesCollected,
	})
}
