package http

import (
	"net/http"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the service API. State-changing routes require a caller
// identity; the query surface and probes are open.
func NewRouter(
	escrowHandler *handlers.EscrowHandler,
	disputeHandler *handlers.DisputeHandler,
	arbiterHandler *handlers.ArbiterHandler,
	statsHandler *handlers.StatsHandler,
	jwtSecret string,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Read-only query surface.
	r.Get("/escrows/{id}", escrowHandler.GetEscrow)
	r.Get("/escrows/{id}/escalation", disputeHandler.GetEscalation)
	r.Get("/escrows/{id}/votes", disputeHandler.GetVoteResults)
	r.Get("/users/{address}/escrows", escrowHandler.GetEscrowsByParticipant)
	r.Get("/users/{address}/stats", statsHandler.GetUserStats)
	r.Get("/stats/protocol", statsHandler.GetProtocolStats)
	r.Get("/arbiters/{address}", arbiterHandler.GetArbiter)

	// State-changing operations.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(jwtSecret))

		r.Post("/escrows", escrowHandler.CreateEscrow)
		r.Post("/escrows/{id}/fund", escrowHandler.FundEscrow)
		r.Post("/escrows/{id}/release", escrowHandler.ReleaseEscrow)
		r.Post("/escrows/{id}/refund", escrowHandler.RefundEscrow)
		r.Post("/escrows/{id}/partial-refund", escrowHandler.PartialRefund)
		r.Post("/escrows/{id}/release-remaining", escrowHandler.ReleaseRemaining)
		r.Post("/escrows/{id}/refund-remaining", escrowHandler.RefundRemaining)

		r.Post("/escrows/{id}/dispute", disputeHandler.OpenDispute)
		r.Post("/escrows/{id}/dispute/resolve", disputeHandler.ResolveDispute)
		r.Post("/escrows/{id}/dispute/escalate", disputeHandler.EscalateDispute)
		r.Post("/escrows/{id}/dispute/assign-arbiter", disputeHandler.AssignSeniorArbiter)
		r.Post("/escrows/{id}/dispute/resolve-escalated", disputeHandler.ResolveEscalatedDispute)
		r.Post("/escrows/{id}/dispute/vote", disputeHandler.CastVote)

		r.Post("/arbiters", arbiterHandler.AddArbiter)
		r.Delete("/arbiters/{address}", arbiterHandler.RemoveArbiter)
		r.Post("/arbiters/{address}/senior", arbiterHandler.AuthorizeSeniorArbiter)
		r.Delete("/arbiters/{address}/senior", arbiterHandler.RevokeSeniorArbiter)
	})

	return r
}
