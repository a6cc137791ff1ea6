package fsm

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// StateDefinition declares a state and the states it may switch to
type StateDefinition[S comparable] struct {
	State S
	Next  []S
}

// Definition is a bulk machine definition. States are added in slice order.
//
// A nil Begin or End asks for auto-detection of border states; a non-nil empty
// slice declares that there are none.
type Definition[S comparable] struct {
	States []StateDefinition[S]
	Begin  []S
	End    []S
}

// Validate checks the definition for duplicated states and duplicated
// transitions. References to undeclared states are reported when the
// definition is applied.
func (d Definition[S]) Validate() error {
	seen := make(map[S]struct{}, len(d.States))
	for _, sd := range d.States {
		if _, dup := seen[sd.State]; dup {
			return NewArgumentError("state %q already exists", stateName(sd.State))
		}
		seen[sd.State] = struct{}{}

		for i, to := range sd.Next {
			if slices.Contains(sd.Next[:i], to) {
				return NewArgumentError("transition from %q to %q already exists", stateName(sd.State), stateName(to))
			}
		}
	}
	return nil
}

// ParseDefinition decodes a YAML document of the form
//
//	states:
//	  locked: [unlocked]
//	  unlocked: [locked]
//	begin: [locked]
//	end: ~
//
// State order follows the document.
func ParseDefinition[S comparable](data []byte) (Definition[S], error) {
	var def Definition[S]
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition[S]{}, err
	}
	return def, nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Definition[S]) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	if value.Kind != yaml.MappingNode {
		return NewArgumentError("definition must be a mapping")
	}

	var def Definition[S]
	seen := make(map[string]bool, 3)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, node := value.Content[i], resolveAlias(value.Content[i+1])
		if seen[key.Value] {
			return NewArgumentError("definition key %q already defined", key.Value)
		}
		seen[key.Value] = true

		var err error
		switch key.Value {
		case "states":
			def.States, err = decodeStates[S](node)
		case "begin":
			def.Begin, err = decodeBorderStates[S](node, true)
		case "end":
			def.End, err = decodeBorderStates[S](node, false)
		default:
			err = NewArgumentError("unknown definition key %q", key.Value)
		}
		if err != nil {
			return err
		}
	}

	*d = def
	return nil
}

func decodeStates[S comparable](node *yaml.Node) ([]StateDefinition[S], error) {
	if node.Kind != yaml.MappingNode {
		return nil, NewArgumentError("states definition must be array")
	}

	states := make([]StateDefinition[S], 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], resolveAlias(node.Content[i+1])

		var sd StateDefinition[S]
		if err := key.Decode(&sd.State); err != nil {
			return nil, fmt.Errorf("decode state %q: %w", key.Value, err)
		}

		switch {
		case isNull(value):
		case value.Kind == yaml.SequenceNode:
			if err := value.Decode(&sd.Next); err != nil {
				return nil, fmt.Errorf("decode next states of %q: %w", key.Value, err)
			}
		default:
			return nil, NewArgumentError("next states definition for state %q must be array", key.Value)
		}
		states = append(states, sd)
	}
	return states, nil
}

func decodeBorderStates[S comparable](node *yaml.Node, begin bool) ([]S, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, NewArgumentError("%s states definition must be array or NULL for auto-detection", borderKind(begin))
	}

	states := make([]S, 0, len(node.Content))
	if err := node.Decode(&states); err != nil {
		return nil, fmt.Errorf("decode %s states: %w", borderKind(begin), err)
	}
	if states == nil {
		states = make([]S, 0)
	}
	return states, nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

// SetDefinition replaces the whole graph and the begin/end states at once.
// On failure the machine is restored to its previous contents.
//
// Deprecated: use Factory.Setup, which builds the machine through the
// incremental mutators.
func (m *Machine[S]) SetDefinition(def Definition[S]) (err error) {
	saved := m.Clone()
	defer func() {
		if err != nil {
			m.restore(saved)
		}
	}()

	if err = m.replaceStates(def.States); err != nil {
		return err
	}
	if err = m.setBorderStates(def.Begin, true); err != nil {
		return err
	}
	if err = m.setBorderStates(def.End, false); err != nil {
		return err
	}

	if m.active && !m.HasState(m.current) {
		var zero S
		m.current, m.active = zero, false
	}
	return nil
}

func (m *Machine[S]) replaceStates(states []StateDefinition[S]) error {
	def := Definition[S]{States: states}
	if err := def.Validate(); err != nil {
		return err
	}

	order := make([]S, 0, len(states))
	next := make(map[S][]S, len(states))
	for _, sd := range states {
		order = append(order, sd.State)
		next[sd.State] = copyStates(sd.Next)
	}
	for _, sd := range states {
		for _, to := range sd.Next {
			if _, exists := next[to]; !exists {
				return NewArgumentError("invalid next states found for state %q", stateName(sd.State))
			}
		}
	}

	m.order = order
	m.next = next
	return nil
}

func (m *Machine[S]) restore(saved *Machine[S]) {
	m.order = saved.order
	m.next = saved.next
	m.begin = saved.begin
	m.end = saved.end
	m.current = saved.current
	m.active = saved.active
}
