package fsm

import "fmt"

// Transition is a directed edge between two states
type Transition[S comparable] struct {
	From S
	To   S
}

func (t Transition[S]) String() string {
	return fmt.Sprintf("%v -> %v", t.From, t.To)
}

func stateName[S comparable](state S) string {
	return fmt.Sprint(state)
}
