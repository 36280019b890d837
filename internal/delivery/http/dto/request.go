package dto

type CreateEscrowRequest struct {
	Seller          string `json:"seller"`
	Amount          uint64 `json:"amount"`
	Description     string `json:"description"`
	DurationSeconds int64  `json:"duration_seconds"`
}

type PartialRefundRequest struct {
	Amount uint64 `json:"amount"`
	Reason string `json:"reason"`
}

type OpenDisputeRequest struct {
	Reason string `json:"reason"`
}

type ResolveDisputeRequest struct {
	Winner string `json:"winner"`
}

type EscalateDisputeRequest struct {
	Reason string `json:"reason"`
}

type AssignSeniorArbiterRequest struct {
	Arbiter string `json:"arbiter"`
}

type CastVoteRequest struct {
	VoteForBuyer bool `json:"vote_for_buyer"`
}

type AddArbiterRequest struct {
	Address string `json:"address"`
}
