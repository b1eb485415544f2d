// Package accel declares the boundary to the accelerator scheduler (C9): the
// component that assigns scarce hardware accelerator slots across plots. Its
// assignment policy is opaque to this system beyond the config snapshot it
// hands out; the plot worker borrows one at backend-start time and passes it
// through to the backend builder.
package accel

import "sync"

// Config is an opaque accelerator slot assignment, handed to a backend
// builder. Its fields are meaningful only to the accelerator scheduler and the
// compiler it configures.
type Config struct {
	SlotID   int
	Priority int
}

// Scheduler hands out Config snapshots to plot workers starting a backend.
// The default implementation assigns an unbounded pool of software slots: on
// hardware without a real accelerator, every backend simply compiles on CPU.
type Scheduler struct {
	mu   sync.Mutex
	next int
}

// NewScheduler returns a Scheduler with no hardware-imposed slot limit.
func NewScheduler() *Scheduler { return &Scheduler{} }

// GetConfig returns the next Config to hand to a plot starting a backend.
func (s *Scheduler) GetConfig() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return Config{SlotID: s.next, Priority: 0}
}
