package usecase

import (
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type ArbiterUsecase interface {
	AddArbiter(caller, address string) error
	RemoveArbiter(caller, address string) error
	AuthorizeSeniorArbiter(caller, address string) error
	RevokeSeniorArbiter(caller, address string) error
	IsArbiter(address string) (bool, error)
	IsSeniorArbiter(address string) (bool, error)
}

// DefaultArbiterUsecase owns the arbiter authorization registry. All toggles
// are owner-gated and idempotent.
type DefaultArbiterUsecase struct {
	arbiterRepo domain.ArbiterRepository
	clock       domain.Clock
	publisher   domain.EventPublisher
	owner       string
}

func NewDefaultArbiterUsecase(
	arbiterRepo domain.ArbiterRepository,
	clock domain.Clock,
	publisher domain.EventPublisher,
	ownerAddress string,
) *DefaultArbiterUsecase {
	return &DefaultArbiterUsecase{
		arbiterRepo: arbiterRepo,
		clock:       clock,
		publisher:   publisher,
		owner:       ownerAddress,
	}
}

func (uc *DefaultArbiterUsecase) AddArbiter(caller, address string) error {
	return uc.toggle(caller, address, true, false, domain.EventArbiterAdded)
}

func (uc *DefaultArbiterUsecase) RemoveArbiter(caller, address string) error {
	return uc.toggle(caller, address, false, false, domain.EventArbiterRemoved)
}

func (uc *DefaultArbiterUsecase) AuthorizeSeniorArbiter(caller, address string) error {
	return uc.toggle(caller, address, true, true, domain.EventSeniorArbiterAuthorized)
}

func (uc *DefaultArbiterUsecase) RevokeSeniorArbiter(caller, address string) error {
	return uc.toggle(caller, address, false, true, domain.EventSeniorArbiterRevoked)
}

func (uc *DefaultArbiterUsecase) IsArbiter(address string) (bool, error) {
	return uc.arbiterRepo.IsArbiter(address)
}

func (uc *DefaultArbiterUsecase) IsSeniorArbiter(address string) (bool, error) {
	return uc.arbiterRepo.IsSeniorArbiter(address)
}

func (uc *DefaultArbiterUsecase) toggle(caller, address string, enabled, senior bool, eventName string) error {
	if caller != uc.owner {
		return fmt.Errorf("only the owner may manage arbiters: %w", domain.ErrNotAuthorized)
	}
	var err error
	if senior {
		err = uc.arbiterRepo.SetSeniorArbiter(address, enabled)
	} else {
		err = uc.arbiterRepo.SetArbiter(address, enabled)
	}
	if err != nil {
		return err
	}

	if err := uc.publisher.Publish(domain.Event{
		Name:  eventName,
		Actor: address,
		Fields: map[string]string{
			"changed_by": caller,
		},
		Timestamp: uc.clock.Now(),
	}); err != nil {
		slog.Error("failed to publish arbiter registry event", "error", err.Error())
	}
	return nil
}
