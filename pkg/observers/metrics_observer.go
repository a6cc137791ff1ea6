package observers

import (
	"sync"
	"time"

	"github.com/anggasct/fsm"
)

// MetricsObserver collects metrics about current state changes
type MetricsObserver[S comparable] struct {
	stateVisits      map[S]int
	stateTimeSpent   map[S]time.Duration
	transitionCounts map[fsm.Transition[S]]int
	teleportCount    int
	errorCount       int
	lastState        S
	lastEntry        time.Time
	hasLast          bool
	mutex            sync.RWMutex
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver[S comparable]() *MetricsObserver[S] {
	return &MetricsObserver[S]{
		stateVisits:      make(map[S]int),
		stateTimeSpent:   make(map[S]time.Duration),
		transitionCounts: make(map[fsm.Transition[S]]int),
	}
}

// OnChange records visit, time and transition metrics
func (o *MetricsObserver[S]) OnChange(change fsm.Change[S]) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.hasLast {
		o.stateTimeSpent[o.lastState] += change.At.Sub(o.lastEntry)
	}
	o.lastState, o.lastEntry, o.hasLast = change.To, change.At, true

	o.stateVisits[change.To]++
	switch {
	case change.Kind == fsm.ChangeTeleport:
		o.teleportCount++
	case change.HasFrom:
		o.transitionCounts[fsm.Transition[S]{From: change.From, To: change.To}]++
	}
}

// OnError records observer failures
func (o *MetricsObserver[S]) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.errorCount++
}

// GetStateVisitCounts returns the number of times each state became current
func (o *MetricsObserver[S]) GetStateVisitCounts() map[S]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[S]int, len(o.stateVisits))
	for state, count := range o.stateVisits {
		result[state] = count
	}
	return result
}

// GetStateTimeSpent returns the time spent in each state that has been left
func (o *MetricsObserver[S]) GetStateTimeSpent() map[S]time.Duration {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[S]time.Duration, len(o.stateTimeSpent))
	for state, duration := range o.stateTimeSpent {
		result[state] = duration
	}
	return result
}

// GetTransitionCounts returns the number of times each transition was used
func (o *MetricsObserver[S]) GetTransitionCounts() map[fsm.Transition[S]]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[fsm.Transition[S]]int, len(o.transitionCounts))
	for transition, count := range o.transitionCounts {
		result[transition] = count
	}
	return result
}

// GetTeleportCount returns the number of SetCurrentState calls observed
func (o *MetricsObserver[S]) GetTeleportCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return o.teleportCount
}

// GetErrorCount returns the number of errors
func (o *MetricsObserver[S]) GetErrorCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return o.errorCount
}

// Reset resets all metrics
func (o *MetricsObserver[S]) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	var zero S
	o.stateVisits = make(map[S]int)
	o.stateTimeSpent = make(map[S]time.Duration)
	o.transitionCounts = make(map[fsm.Transition[S]]int)
	o.teleportCount = 0
	o.errorCount = 0
	o.lastState, o.lastEntry, o.hasLast = zero, time.Time{}, false
}
