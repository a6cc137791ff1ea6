package fsm

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChangeKind tells how the current state was changed
type ChangeKind int

const (
	// ChangeSwitch is a move along an existing transition (SwitchState)
	ChangeSwitch ChangeKind = iota
	// ChangeTeleport is a direct assignment of the current state (SetCurrentState)
	ChangeTeleport
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeSwitch:
		return "switch"
	case ChangeTeleport:
		return "teleport"
	default:
		return "unknown"
	}
}

// Change describes a single update of the current state
type Change[S comparable] struct {
	ID   string
	Kind ChangeKind
	// From is only meaningful when HasFrom is true; a machine that had no
	// current state reports HasFrom == false.
	From    S
	HasFrom bool
	To      S
	At      time.Time
}

func newChange[S comparable](kind ChangeKind, from S, hasFrom bool, to S) Change[S] {
	return Change[S]{
		ID:      uuid.NewString(),
		Kind:    kind,
		From:    from,
		HasFrom: hasFrom,
		To:      to,
		At:      time.Now(),
	}
}

// Observer is notified whenever the current state of a machine changes
type Observer[S comparable] interface {
	OnChange(change Change[S])
}

// ErrorObserver is an optional extension notified when another observer panics
type ErrorObserver[S comparable] interface {
	Observer[S]
	OnError(err error)
}

type funcObserver[S comparable] struct {
	fn func(Change[S])
}

func (o *funcObserver[S]) OnChange(change Change[S]) {
	o.fn(change)
}

// ObserverFunc wraps a plain function as an Observer. The returned value can be
// passed to RemoveObserver.
func ObserverFunc[S comparable](fn func(Change[S])) Observer[S] {
	return &funcObserver[S]{fn: fn}
}

// ObserverManager manages a collection of observers. A nil *ObserverManager
// has no observers; every method except AddObserver is safe to call on it.
type ObserverManager[S comparable] struct {
	observers []Observer[S]
}

// NewObserverManager creates a new observer manager
func NewObserverManager[S comparable]() *ObserverManager[S] {
	return &ObserverManager[S]{
		observers: make([]Observer[S], 0),
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager[S]) AddObserver(observer Observer[S]) {
	if observer == nil {
		return
	}
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager[S]) RemoveObserver(observer Observer[S]) {
	if om == nil {
		return
	}
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered observers
func (om *ObserverManager[S]) Len() int {
	if om == nil {
		return 0
	}
	return len(om.observers)
}

// NotifyChange notifies all observers of a current state change. A panicking
// observer does not stop the others; it is reported to every ErrorObserver.
func (om *ObserverManager[S]) NotifyChange(change Change[S]) {
	if om == nil {
		return
	}
	observers := make([]Observer[S], len(om.observers))
	copy(observers, om.observers)

	for _, observer := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					om.notifyError(observers, fmt.Errorf("observer panic in OnChange: %v", r))
				}
			}()
			observer.OnChange(change)
		}()
	}
}

func (om *ObserverManager[S]) notifyError(observers []Observer[S], err error) {
	for _, observer := range observers {
		if errObs, ok := observer.(ErrorObserver[S]); ok {
			func() {
				defer func() { _ = recover() }()
				errObs.OnError(err)
			}()
		}
	}
}

func (om *ObserverManager[S]) clone() *ObserverManager[S] {
	if om == nil {
		return NewObserverManager[S]()
	}
	observers := make([]Observer[S], len(om.observers))
	copy(observers, om.observers)
	return &ObserverManager[S]{observers: observers}
}
