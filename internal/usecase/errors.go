package usecase

import (
	"errors"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// errorKind collapses an operation error to a short label for metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrExpired):
		return "expired"
	case errors.Is(err, domain.ErrWrongState):
		return "wrong_state"
	case errors.Is(err, domain.ErrEscalationExpired):
		return "escalation_expired"
	case errors.Is(err, domain.ErrExceedsRemaining):
		return "exceeds_remaining"
	case errors.Is(err, domain.ErrNothingToRefund):
		return "nothing_to_refund"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	default:
		return "internal"
	}
}
