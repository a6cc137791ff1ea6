package fsm

// DetectBeginStates returns the states no transition leads to, in state order
func (m *Machine[S]) DetectBeginStates() []S {
	return m.detectBorderStates(true)
}

// DetectEndStates returns the states no transition leaves, in state order.
// A self-loop counts as an outgoing transition.
func (m *Machine[S]) DetectEndStates() []S {
	return m.detectBorderStates(false)
}

func (m *Machine[S]) detectBorderStates(begin bool) []S {
	counter := make(map[S]int, len(m.order))
	for _, state := range m.order {
		counter[state] = 0
	}
	for _, from := range m.order {
		for _, to := range m.next[from] {
			if begin {
				counter[to]++
			} else {
				counter[from]++
			}
		}
	}

	border := make([]S, 0)
	for _, state := range m.order {
		if counter[state] == 0 {
			border = append(border, state)
		}
	}
	return border
}

// setBorderStates stores explicit begin or end states, or detected ones when
// states is nil. Explicit states must all be defined.
func (m *Machine[S]) setBorderStates(states []S, begin bool) error {
	if states == nil {
		states = m.detectBorderStates(begin)
	} else {
		for _, state := range states {
			if !m.HasState(state) {
				return NewArgumentError("invalid state found in %s states", borderKind(begin))
			}
		}
	}

	if begin {
		m.begin = copyStates(states)
	} else {
		m.end = copyStates(states)
	}
	return nil
}

func borderKind(begin bool) string {
	if begin {
		return "begin"
	}
	return "end"
}
