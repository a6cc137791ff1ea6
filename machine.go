package fsm

import (
	"slices"
)

// Machine is a finite state machine structure: a directed graph of states,
// the begin and end subsets and an optional current state.
//
// States are kept in insertion order. The zero value is an empty, undefined
// machine ready to use. A Machine is not safe for concurrent use; callers
// sharing one between goroutines must guard it themselves.
type Machine[S comparable] struct {
	order   []S
	next    map[S][]S
	begin   []S
	end     []S
	current S
	active  bool

	strictRemoval bool
	observers     *ObserverManager[S]
}

// New creates an empty (undefined) machine
func New[S comparable](opts ...Option) *Machine[S] {
	cfg := machineConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Machine[S]{
		order:         make([]S, 0),
		next:          make(map[S][]S),
		begin:         make([]S, 0),
		end:           make([]S, 0),
		strictRemoval: cfg.strictRemoval,
		observers:     NewObserverManager[S](),
	}
}

// IsDefined returns whether there are any states defined
func (m *Machine[S]) IsDefined() bool {
	return len(m.order) > 0
}

func (m *Machine[S]) validateDefined() error {
	if !m.IsDefined() {
		return NewNotDefinedError()
	}
	return nil
}

func (m *Machine[S]) validateState(state S) error {
	if _, exists := m.next[state]; !exists {
		return NewUnknownStateError(state)
	}
	return nil
}

// States returns all defined states in insertion order. It fails with a
// StateError when no states are defined.
func (m *Machine[S]) States() ([]S, error) {
	if err := m.validateDefined(); err != nil {
		return nil, err
	}
	return m.TryStates(), nil
}

// TryStates is the graceful form of States: an undefined machine yields an
// empty slice.
func (m *Machine[S]) TryStates() []S {
	return copyStates(m.order)
}

// BeginStates returns the stored begin states
func (m *Machine[S]) BeginStates() ([]S, error) {
	if err := m.validateDefined(); err != nil {
		return nil, err
	}
	return m.TryBeginStates(), nil
}

// TryBeginStates is the graceful form of BeginStates
func (m *Machine[S]) TryBeginStates() []S {
	return copyStates(m.begin)
}

// EndStates returns the stored end states
func (m *Machine[S]) EndStates() ([]S, error) {
	if err := m.validateDefined(); err != nil {
		return nil, err
	}
	return m.TryEndStates(), nil
}

// TryEndStates is the graceful form of EndStates
func (m *Machine[S]) TryEndStates() []S {
	return copyStates(m.end)
}

// SetBeginStates replaces the begin states. Every state must be defined.
func (m *Machine[S]) SetBeginStates(states ...S) error {
	if err := m.validateStates(states); err != nil {
		return err
	}
	m.begin = copyStates(states)
	return nil
}

// SetEndStates replaces the end states. Every state must be defined.
func (m *Machine[S]) SetEndStates(states ...S) error {
	if err := m.validateStates(states); err != nil {
		return err
	}
	m.end = copyStates(states)
	return nil
}

func (m *Machine[S]) validateStates(states []S) error {
	for _, state := range states {
		if err := m.validateState(state); err != nil {
			return err
		}
	}
	return nil
}

// CurrentState returns the current state. It fails with a StateError when the
// machine is undefined or the current state has not been set yet.
func (m *Machine[S]) CurrentState() (S, error) {
	var zero S
	if err := m.validateDefined(); err != nil {
		return zero, err
	}
	if !m.active {
		return zero, NewNotInitializedError()
	}
	return m.current, nil
}

// TryCurrentState is the graceful form of CurrentState. The second result is
// false when there is no current state.
func (m *Machine[S]) TryCurrentState() (S, bool) {
	var zero S
	if !m.IsDefined() || !m.active {
		return zero, false
	}
	return m.current, true
}

// SetCurrentState moves the machine to any defined state, regardless of the
// transitions leading there.
func (m *Machine[S]) SetCurrentState(state S) error {
	if err := m.validateState(state); err != nil {
		return err
	}
	m.moveTo(ChangeTeleport, state)
	return nil
}

// SwitchState moves the machine from its current state to state along an
// existing transition. An unreachable state yields a TransitionError.
func (m *Machine[S]) SwitchState(state S) error {
	ok, err := m.CanSwitchState(state)
	if err != nil {
		return err
	}
	if !ok {
		return NewTransitionError(m.current, state)
	}
	m.moveTo(ChangeSwitch, state)
	return nil
}

func (m *Machine[S]) moveTo(kind ChangeKind, state S) {
	from, hasFrom := m.current, m.active
	m.current = state
	m.active = true

	if m.observers.Len() > 0 {
		m.observers.NotifyChange(newChange(kind, from, hasFrom, state))
	}
}

// CanSwitchState tells whether the machine can switch from its current state
// to state.
func (m *Machine[S]) CanSwitchState(state S) (bool, error) {
	if err := m.validateState(state); err != nil {
		return false, err
	}
	from, err := m.CurrentState()
	if err != nil {
		return false, err
	}
	return slices.Contains(m.next[from], state), nil
}

// CanSwitchStateFrom tells whether there is a transition from one defined
// state to another, independently of the current state.
func (m *Machine[S]) CanSwitchStateFrom(state, from S) (bool, error) {
	if err := m.validateState(state); err != nil {
		return false, err
	}
	if err := m.validateState(from); err != nil {
		return false, err
	}
	return slices.Contains(m.next[from], state), nil
}

// AddState adds a new state without transitions
func (m *Machine[S]) AddState(state S) error {
	if m.HasState(state) {
		return NewArgumentError("state %q already exists", stateName(state))
	}
	if m.next == nil {
		m.next = make(map[S][]S)
	}
	m.order = append(m.order, state)
	m.next[state] = nil
	return nil
}

// HasState tells if the state exists
func (m *Machine[S]) HasState(state S) bool {
	_, exists := m.next[state]
	return exists
}

// RemoveState removes the state and its outgoing transitions.
//
// Transitions from other states into the removed one, begin/end membership and
// the current state are left as they are unless the machine was created with
// WithStrictRemoval.
func (m *Machine[S]) RemoveState(state S) error {
	if !m.HasState(state) {
		return NewArgumentError("state %q does not exist", stateName(state))
	}
	delete(m.next, state)
	m.order = slices.DeleteFunc(m.order, func(s S) bool { return s == state })

	if m.strictRemoval {
		for from, targets := range m.next {
			m.next[from] = slices.DeleteFunc(targets, func(s S) bool { return s == state })
		}
		m.begin = slices.DeleteFunc(m.begin, func(s S) bool { return s == state })
		m.end = slices.DeleteFunc(m.end, func(s S) bool { return s == state })
		if m.active && m.current == state {
			var zero S
			m.current, m.active = zero, false
		}
	}
	return nil
}

// AddTransition adds a transition between two defined states
func (m *Machine[S]) AddTransition(from, to S) error {
	exists, err := m.HasTransition(from, to)
	if err != nil {
		return err
	}
	if exists {
		return NewArgumentError("transition from %q to %q already exists", stateName(from), stateName(to))
	}
	m.next[from] = append(m.next[from], to)
	return nil
}

// HasTransition tells if a transition between two states exists. Both states
// must be defined.
func (m *Machine[S]) HasTransition(from, to S) (bool, error) {
	if err := m.validateState(from); err != nil {
		return false, err
	}
	if err := m.validateState(to); err != nil {
		return false, err
	}
	return slices.Contains(m.next[from], to), nil
}

// TransitionsFrom returns the targets of all transitions leaving state, in the
// order they were added.
func (m *Machine[S]) TransitionsFrom(state S) ([]S, error) {
	if err := m.validateState(state); err != nil {
		return nil, err
	}
	return copyStates(m.next[state]), nil
}

// Transitions returns every transition, grouped by source state in state order
func (m *Machine[S]) Transitions() []Transition[S] {
	transitions := make([]Transition[S], 0)
	for _, from := range m.order {
		for _, to := range m.next[from] {
			transitions = append(transitions, Transition[S]{From: from, To: to})
		}
	}
	return transitions
}

// RemoveTransition removes an existing transition
func (m *Machine[S]) RemoveTransition(from, to S) error {
	return m.removeTransition(from, to, false)
}

// TryRemoveTransition removes a transition if it exists. Unknown states are
// still reported.
func (m *Machine[S]) TryRemoveTransition(from, to S) error {
	return m.removeTransition(from, to, true)
}

func (m *Machine[S]) removeTransition(from, to S, graceful bool) error {
	exists, err := m.HasTransition(from, to)
	if err != nil {
		return err
	}
	if !exists {
		if graceful {
			return nil
		}
		return NewArgumentError("there is no transition from %q to %q", stateName(from), stateName(to))
	}
	m.next[from] = slices.DeleteFunc(m.next[from], func(s S) bool { return s == to })
	return nil
}

// RemoveTransitionsFrom removes all transitions leaving the state
func (m *Machine[S]) RemoveTransitionsFrom(from S) error {
	if err := m.validateState(from); err != nil {
		return err
	}
	m.next[from] = nil
	return nil
}

// RemoveTransitionsTo removes all transitions leading to the state. It fails
// with a StateError on an undefined machine.
func (m *Machine[S]) RemoveTransitionsTo(to S) error {
	if err := m.validateDefined(); err != nil {
		return err
	}
	return m.TryRemoveTransitionsTo(to)
}

// TryRemoveTransitionsTo is the graceful form of RemoveTransitionsTo: an
// undefined machine is left alone, an unknown state is still reported.
func (m *Machine[S]) TryRemoveTransitionsTo(to S) error {
	for _, from := range m.TryStates() {
		if err := m.TryRemoveTransition(from, to); err != nil {
			return err
		}
	}
	return nil
}

// ClearTransitions removes every transition while keeping the states
func (m *Machine[S]) ClearTransitions() error {
	if err := m.validateDefined(); err != nil {
		return err
	}
	m.TryClearTransitions()
	return nil
}

// TryClearTransitions is the graceful form of ClearTransitions
func (m *Machine[S]) TryClearTransitions() {
	for _, state := range m.order {
		m.next[state] = nil
	}
}

// AddObserver registers an observer of current state changes
func (m *Machine[S]) AddObserver(observer Observer[S]) {
	if m.observers == nil {
		m.observers = NewObserverManager[S]()
	}
	m.observers.AddObserver(observer)
}

// RemoveObserver unregisters an observer
func (m *Machine[S]) RemoveObserver(observer Observer[S]) {
	m.observers.RemoveObserver(observer)
}

// Clone returns a deep copy of the machine. Observers are shared with the
// source machine but registered independently.
func (m *Machine[S]) Clone() *Machine[S] {
	next := make(map[S][]S, len(m.next))
	for state, targets := range m.next {
		next[state] = copyStates(targets)
	}

	return &Machine[S]{
		order:         copyStates(m.order),
		next:          next,
		begin:         copyStates(m.begin),
		end:           copyStates(m.end),
		current:       m.current,
		active:        m.active,
		strictRemoval: m.strictRemoval,
		observers:     m.observers.clone(),
	}
}

// Definition exports the graph as a definition with explicit begin and end
// states, suitable for Factory.Create.
func (m *Machine[S]) Definition() Definition[S] {
	def := Definition[S]{
		States: make([]StateDefinition[S], 0, len(m.order)),
		Begin:  m.TryBeginStates(),
		End:    m.TryEndStates(),
	}
	for _, state := range m.order {
		def.States = append(def.States, StateDefinition[S]{
			State: state,
			Next:  copyStates(m.next[state]),
		})
	}
	return def
}

func copyStates[S comparable](states []S) []S {
	return append(make([]S, 0, len(states)), states...)
}
