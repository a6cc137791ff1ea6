package fsm

import "slices"

// DefinitionBuilder assembles a Definition with a fluent API:
//
//	def := fsm.NewDefinitionBuilder[string]().
//		State("locked").Begin().To("unlocked").
//		State("unlocked").To("locked", "broken").
//		State("broken").End().
//		Build()
//
// States keep the order of their first State call. Begin and end states that
// were never marked are left for auto-detection.
type DefinitionBuilder[S comparable] struct {
	order []S
	next  map[S][]S
	begin []S
	end   []S
}

// NewDefinitionBuilder creates an empty definition builder
func NewDefinitionBuilder[S comparable]() *DefinitionBuilder[S] {
	return &DefinitionBuilder[S]{
		order: make([]S, 0),
		next:  make(map[S][]S),
	}
}

// State declares a state, or returns to a state declared earlier
func (b *DefinitionBuilder[S]) State(state S) *StateBuilder[S] {
	if _, exists := b.next[state]; !exists {
		b.order = append(b.order, state)
		b.next[state] = make([]S, 0)
	}
	return &StateBuilder[S]{builder: b, state: state}
}

// NoBeginStates declares that the machine has no begin states
func (b *DefinitionBuilder[S]) NoBeginStates() *DefinitionBuilder[S] {
	b.begin = make([]S, 0)
	return b
}

// NoEndStates declares that the machine has no end states
func (b *DefinitionBuilder[S]) NoEndStates() *DefinitionBuilder[S] {
	b.end = make([]S, 0)
	return b
}

// Build returns the definition. The builder can keep being used afterwards
// without affecting the returned value.
func (b *DefinitionBuilder[S]) Build() Definition[S] {
	def := Definition[S]{
		States: make([]StateDefinition[S], 0, len(b.order)),
	}
	for _, state := range b.order {
		def.States = append(def.States, StateDefinition[S]{
			State: state,
			Next:  copyStates(b.next[state]),
		})
	}
	if b.begin != nil {
		def.Begin = copyStates(b.begin)
	}
	if b.end != nil {
		def.End = copyStates(b.end)
	}
	return def
}

// StateBuilder configures a single state of a DefinitionBuilder
type StateBuilder[S comparable] struct {
	builder *DefinitionBuilder[S]
	state   S
}

// To adds transitions from this state. Targets not declared through State are
// reported when the definition is applied. Repeated targets are added once.
func (sb *StateBuilder[S]) To(targets ...S) *StateBuilder[S] {
	next := sb.builder.next[sb.state]
	for _, target := range targets {
		if !slices.Contains(next, target) {
			next = append(next, target)
		}
	}
	sb.builder.next[sb.state] = next
	return sb
}

// ToSelf adds a transition from this state to itself
func (sb *StateBuilder[S]) ToSelf() *StateBuilder[S] {
	return sb.To(sb.state)
}

// Begin marks this state as a begin state
func (sb *StateBuilder[S]) Begin() *StateBuilder[S] {
	if !slices.Contains(sb.builder.begin, sb.state) {
		sb.builder.begin = append(sb.builder.begin, sb.state)
	}
	return sb
}

// End marks this state as an end state
func (sb *StateBuilder[S]) End() *StateBuilder[S] {
	if !slices.Contains(sb.builder.end, sb.state) {
		sb.builder.end = append(sb.builder.end, sb.state)
	}
	return sb
}

// State moves on to another state
func (sb *StateBuilder[S]) State(state S) *StateBuilder[S] {
	return sb.builder.State(state)
}

// Build finalizes the definition
func (sb *StateBuilder[S]) Build() Definition[S] {
	return sb.builder.Build()
}
