package events

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

// FanoutPublisher writes the same events to every sink in order: the durable
// outbox first, then the push channel.
type FanoutPublisher struct {
	sinks []domain.EventPublisher
}

func NewFanoutPublisher(sinks ...domain.EventPublisher) *FanoutPublisher {
	return &FanoutPublisher{sinks: sinks}
}

func (f *FanoutPublisher) Publish(events ...domain.Event) error {
	for _, sink := range f.sinks {
		if err := sink.Publish(events...); err != nil {
			return err
		}
	}
	return nil
}
