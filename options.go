package fsm

import "log/slog"

// Option configures a Machine
type Option func(*machineConfig)

type machineConfig struct {
	strictRemoval bool
}

// WithStrictRemoval makes RemoveState also drop transitions into the removed
// state, its begin/end membership and a current state pointing at it.
// Without it RemoveState only deletes the state and its outgoing transitions.
func WithStrictRemoval() Option {
	return func(c *machineConfig) {
		c.strictRemoval = true
	}
}

// FactoryOption configures a Factory
type FactoryOption func(*factoryConfig)

type factoryConfig struct {
	logger         *slog.Logger
	machineOptions []Option
}

// WithFactoryLogger sets the logger used to report rejected definitions
func WithFactoryLogger(logger *slog.Logger) FactoryOption {
	return func(c *factoryConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMachineOptions sets the options applied to machines created by Create
func WithMachineOptions(opts ...Option) FactoryOption {
	return func(c *factoryConfig) {
		c.machineOptions = append(c.machineOptions, opts...)
	}
}
