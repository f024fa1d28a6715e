package registry

import "sync/atomic"

// Settings carries the container-level registration policy shared by every
// entry and resolver: the lock state that splits the configuration phase from
// the resolution phase, the overriding mode, and an optional producer
// recorder for diagnostics.
type Settings struct {
	locked     atomic.Bool
	overriding bool
	onProducer func(*Producer)
}

// NewSettings creates registration settings.
func NewSettings(overriding bool) *Settings {
	return &Settings{overriding: overriding}
}

// Lock moves the container into the resolution phase. Mutation attempts
// after this point fail immediately.
func (s *Settings) Lock() { s.locked.Store(true) }

// Locked reports whether the container has been locked.
func (s *Settings) Locked() bool { return s.locked.Load() }

// Overriding reports whether new unconditional registrations replace
// overlapping prior ones instead of conflicting with them.
func (s *Settings) Overriding() bool { return s.overriding }

// SetProducerRecorder installs a callback invoked once for every producer
// built. Must be set during the configuration phase.
func (s *Settings) SetProducerRecorder(f func(*Producer)) { s.onProducer = f }

func (s *Settings) recordProducer(p *Producer) {
	if s.onProducer != nil {
		s.onProducer(p)
	}
}
