package fsm

import (
	"sync"
	"testing"
)

// TestObserver is an observer for testing that captures every change
type TestObserver[S comparable] struct {
	mutex   sync.RWMutex
	Changes []Change[S]
	Errors  []error
}

// NewTestObserver creates a new test observer
func NewTestObserver[S comparable]() *TestObserver[S] {
	return &TestObserver[S]{
		Changes: make([]Change[S], 0),
		Errors:  make([]error, 0),
	}
}

func (o *TestObserver[S]) OnChange(change Change[S]) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Changes = append(o.Changes, change)
}

func (o *TestObserver[S]) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Errors = append(o.Errors, err)
}

func (o *TestObserver[S]) ChangeCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Changes)
}

func (o *TestObserver[S]) LastChange() *Change[S] {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.Changes) == 0 {
		return nil
	}
	return &o.Changes[len(o.Changes)-1]
}

// sampleDefinition is the graph most tests run against:
//
//	1 -> 2, 3, 4
//	2 -> 2, 3, 4
//	3 -> 4
//	4
func sampleDefinition() Definition[int] {
	return Definition[int]{
		States: []StateDefinition[int]{
			{State: 1, Next: []int{2, 3, 4}},
			{State: 2, Next: []int{2, 3, 4}},
			{State: 3, Next: []int{4}},
			{State: 4, Next: []int{}},
		},
	}
}

// newSampleMachine builds the sample machine, optionally with a current state
func newSampleMachine(t testing.TB, current ...int) *Machine[int] {
	t.Helper()

	m, err := NewFactory[int]().Create(sampleDefinition())
	if err != nil {
		t.Fatalf("Failed to create sample machine: %v", err)
	}
	for _, state := range current {
		if err := m.SetCurrentState(state); err != nil {
			t.Fatalf("Failed to set current state %d: %v", state, err)
		}
	}
	return m
}

func TestTestHelpers_Functions(t *testing.T) {
	observer := NewTestObserver[int]()

	if observer.ChangeCount() != 0 {
		t.Errorf("Expected 0 changes initially, got %d", observer.ChangeCount())
	}

	if observer.LastChange() != nil {
		t.Error("Expected no last change initially")
	}

	m := newSampleMachine(t)
	m.AddObserver(observer)

	if err := m.SetCurrentState(1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if observer.ChangeCount() != 1 {
		t.Errorf("Expected 1 change, got %d", observer.ChangeCount())
	}

	if last := observer.LastChange(); last == nil || last.To != 1 {
		t.Errorf("Expected last change to state 1, got %+v", last)
	}
}
