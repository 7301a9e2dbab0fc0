package fleet

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Simulated is a software-only provider. It stands in for vendor SDK
// bindings so routes can be dispatched end to end without hardware.
type Simulated struct {
	name       string
	connection string

	mu         sync.Mutex
	connected  bool
	dispatched int
}

// NewSimulated returns a simulated provider advertised under the given
// registry name.
func NewSimulated(name, connection string) *Simulated {
	return &Simulated{name: name, connection: connection}
}

// RegisterSimulated wires a simulated provider factory into the registry
// under the given name. The demo deck registers "dji" this way.
func RegisterSimulated(registry *Registry, name string) {
	registry.Register(name, func(connection string) Provider {
		return NewSimulated(name, connection)
	})
}

// Name returns the registry identifier.
func (s *Simulated) Name() string { return s.name }

// Connect marks the simulated link as established.
func (s *Simulated) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	return nil
}

// Disconnect releases the simulated link.
func (s *Simulated) Disconnect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}

// Send dispatches commands in order, honouring per-command durations and
// context cancellation between commands. It returns the number of commands
// that went out before any interruption.
func (s *Simulated) Send(ctx context.Context, commands []Command) (int, error) {
	for sent, command := range commands {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if command.Duration > 0 {
			timer := time.NewTimer(command.Duration)
			select {
			case <-ctx.Done():
				timer.Stop()
				return sent, ctx.Err()
			case <-timer.C:
			}
		}
		s.mu.Lock()
		s.dispatched++
		s.mu.Unlock()
	}
	return len(commands), nil
}

// EmergencyLand aborts the mission. The simulated link must be connected.
func (s *Simulated) EmergencyLand(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return fmt.Errorf("provider %s is not connected", s.name)
	}
	return nil
}

// Metadata reports diagnostic pairs for UI displays.
func (s *Simulated) Metadata() map[string]string {
	connection := s.connection
	if connection == "" {
		connection = "not configured"
	}
	return map[string]string{
		"provider":   s.name,
		"connection": connection,
	}
}

// Dispatched returns how many commands the provider has sent so far.
func (s *Simulated) Dispatched() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatched
}
