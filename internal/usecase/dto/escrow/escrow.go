package escrowdto

import "time"

type CreateEscrowInput struct {
	Seller      string
	Amount      uint64
	Description string
	Duration    time.Duration
}

type PartialRefundInput struct {
	EscrowID     uint64
	RefundAmount uint64
	Reason       string
}
