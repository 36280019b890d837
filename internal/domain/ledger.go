package domain

import (
	"context"
	"time"
)

// LedgerPort is the value-transfer boundary. A transfer is atomic relative to
// the calling operation: it either moves the full amount or fails with
// ErrInsufficientFunds, leaving both balances untouched.
type LedgerPort interface {
	Transfer(ctx context.Context, from, to string, amount uint64) error
}

// Clock yields the caller-visible current time. Timeouts are not events: an
// expiry or escalation deadline is only observed when an operation compares
// Now() against it.
type Clock interface {
	Now() time.Time
}
