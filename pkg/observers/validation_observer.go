package observers

import (
	"fmt"
	"sync"

	"github.com/anggasct/fsm"
)

// ValidationObserver checks observed changes against a definition: every
// change must follow a declared transition and every declared state is
// expected to be visited.
type ValidationObserver[S comparable] struct {
	expectedStates     []S
	visitedStates      map[S]bool
	allowedTransitions map[fsm.Transition[S]]bool
	violations         []string
	mutex              sync.RWMutex
}

// NewValidationObserver creates a validation observer for the definition.
// The first change of a machine without a current state is never a violation.
func NewValidationObserver[S comparable](def fsm.Definition[S]) *ValidationObserver[S] {
	o := &ValidationObserver[S]{
		visitedStates:      make(map[S]bool),
		allowedTransitions: make(map[fsm.Transition[S]]bool),
		violations:         make([]string, 0),
	}
	for _, sd := range def.States {
		o.expectedStates = append(o.expectedStates, sd.State)
		for _, to := range sd.Next {
			o.allowedTransitions[fsm.Transition[S]{From: sd.State, To: to}] = true
		}
	}
	return o
}

// OnChange validates a current state change
func (o *ValidationObserver[S]) OnChange(change fsm.Change[S]) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visitedStates[change.To] = true
	if !change.HasFrom {
		return
	}
	if !o.allowedTransitions[fsm.Transition[S]{From: change.From, To: change.To}] {
		o.violations = append(o.violations, fmt.Sprintf(
			"undeclared %s from '%v' to '%v'", change.Kind, change.From, change.To))
	}
}

// OnError records observer failures as violations
func (o *ValidationObserver[S]) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.violations = append(o.violations, fmt.Sprintf("error occurred: %v", err))
}

// GetViolations returns all validation violations
func (o *ValidationObserver[S]) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// GetUnvisitedStates returns declared states that never became current, in
// declaration order
func (o *ValidationObserver[S]) GetUnvisitedStates() []S {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	unvisited := make([]S, 0)
	for _, state := range o.expectedStates {
		if !o.visitedStates[state] {
			unvisited = append(unvisited, state)
		}
	}
	return unvisited
}

// HasViolations returns whether any violations occurred
func (o *ValidationObserver[S]) HasViolations() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) > 0
}

// Reset resets the validation state
func (o *ValidationObserver[S]) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visitedStates = make(map[S]bool)
	o.violations = make([]string, 0)
}
