package fsm

import (
	"log/slog"
)

// Factory builds machines from bulk definitions. A definition is applied
// completely or not at all.
type Factory[S comparable] struct {
	logger         *slog.Logger
	machineOptions []Option
}

// NewFactory creates a new factory
func NewFactory[S comparable](opts ...FactoryOption) *Factory[S] {
	cfg := factoryConfig{
		logger: slog.Default().WithGroup("fsm.Factory"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Factory[S]{
		logger:         cfg.logger,
		machineOptions: cfg.machineOptions,
	}
}

// Create builds a new machine from the definition
func (f *Factory[S]) Create(def Definition[S]) (*Machine[S], error) {
	m := New[S](f.machineOptions...)
	if err := f.Setup(m, def); err != nil {
		return nil, err
	}
	return m, nil
}

// Setup applies the definition on top of an existing machine. The work is
// done on a copy which replaces *m only when every step succeeded, so a
// failing definition leaves m untouched.
func (f *Factory[S]) Setup(m *Machine[S], def Definition[S]) error {
	if m == nil {
		return NewArgumentError("machine must not be nil")
	}

	edited := m.Clone()
	if err := f.apply(edited, def); err != nil {
		f.logger.Debug("Rejected machine definition", "error", err, "states", len(def.States))
		return err
	}

	*m = *edited
	return nil
}

// CreateFromYAML builds a new machine from a YAML definition (see ParseDefinition)
func (f *Factory[S]) CreateFromYAML(data []byte) (*Machine[S], error) {
	def, err := ParseDefinition[S](data)
	if err != nil {
		f.logger.Debug("Rejected YAML definition", "error", err)
		return nil, err
	}
	return f.Create(def)
}

// SetupFromYAML applies a YAML definition on top of an existing machine
func (f *Factory[S]) SetupFromYAML(m *Machine[S], data []byte) error {
	def, err := ParseDefinition[S](data)
	if err != nil {
		f.logger.Debug("Rejected YAML definition", "error", err)
		return err
	}
	return f.Setup(m, def)
}

func (f *Factory[S]) apply(m *Machine[S], def Definition[S]) error {
	for _, sd := range def.States {
		if err := m.AddState(sd.State); err != nil {
			return err
		}
	}
	for _, sd := range def.States {
		for _, to := range sd.Next {
			if err := m.AddTransition(sd.State, to); err != nil {
				return err
			}
		}
	}

	if err := m.setBorderStates(def.Begin, true); err != nil {
		return err
	}
	return m.setBorderStates(def.End, false)
}
