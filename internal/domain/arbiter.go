package domain

import "time"

type Arbiter struct {
	Address   string
	IsArbiter bool
	IsSenior  bool
	UpdatedAt time.Time
}

// ArbiterRepository owns the arbiter and senior-arbiter authorization flags.
// Lookups default to false for unknown addresses.
type ArbiterRepository interface {
	SetArbiter(address string, enabled bool) error
	SetSeniorArbiter(address string, enabled bool) error
	IsArbiter(address string) (bool, error)
	IsSeniorArbiter(address string) (bool, error)
}
