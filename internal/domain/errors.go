package domain

import "errors"

var (
	ErrNotAuthorized     = errors.New("caller is not authorized for this operation")
	ErrNotFound          = errors.New("escrow not found")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrExpired           = errors.New("funding deadline has passed")
	ErrWrongState        = errors.New("operation is not valid for current escrow status")
	ErrEscalationExpired = errors.New("escalation deadline has passed")
	ErrExceedsRemaining  = errors.New("refund amount exceeds remaining amount")
	ErrNothingToRefund   = errors.New("nothing left to refund")
	ErrInsufficientFunds = errors.New("insufficient funds")
)
