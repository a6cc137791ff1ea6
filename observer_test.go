package fsm

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObserver struct {
	mock.Mock
}

func (m *mockObserver) OnChange(change Change[int]) {
	m.Called(change)
}

func changeTo(kind ChangeKind, hasFrom bool, from, to int) any {
	return mock.MatchedBy(func(c Change[int]) bool {
		return c.Kind == kind && c.HasFrom == hasFrom && c.From == from && c.To == to
	})
}

func TestObserver_NotifiedOnChanges(t *testing.T) {
	observer := &mockObserver{}
	observer.On("OnChange", changeTo(ChangeTeleport, false, 0, 1)).Once()
	observer.On("OnChange", changeTo(ChangeSwitch, true, 1, 2)).Once()
	observer.On("OnChange", changeTo(ChangeTeleport, true, 2, 4)).Once()

	m := newSampleMachine(t)
	m.AddObserver(observer)

	require.NoError(t, m.SetCurrentState(1))
	require.NoError(t, m.SwitchState(2))
	require.NoError(t, m.SetCurrentState(4))

	observer.AssertExpectations(t)
}

func TestObserver_NotNotifiedOnRejectedChanges(t *testing.T) {
	observer := &mockObserver{}

	m := newSampleMachine(t)
	m.AddObserver(observer)

	assert.Error(t, m.SwitchState(2))
	assert.Error(t, m.SetCurrentState(9))

	observer.AssertNotCalled(t, "OnChange", mock.Anything)
}

func TestObserver_ChangeCarriesIDAndTime(t *testing.T) {
	observer := NewTestObserver[int]()
	m := newSampleMachine(t, 1)
	m.AddObserver(observer)

	require.NoError(t, m.SwitchState(3))
	require.NoError(t, m.SwitchState(4))

	require.Equal(t, 2, observer.ChangeCount())
	first, second := observer.Changes[0], observer.Changes[1]

	_, err := uuid.Parse(first.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.At.IsZero())
	assert.False(t, second.At.Before(first.At))
}

func TestObserver_Remove(t *testing.T) {
	var calls int
	observer := ObserverFunc(func(Change[int]) { calls++ })

	m := newSampleMachine(t)
	m.AddObserver(observer)
	require.NoError(t, m.SetCurrentState(1))

	m.RemoveObserver(observer)
	require.NoError(t, m.SetCurrentState(2))

	assert.Equal(t, 1, calls)
}

func TestObserver_PanicIsContained(t *testing.T) {
	recorder := NewTestObserver[int]()

	m := newSampleMachine(t)
	m.AddObserver(ObserverFunc(func(Change[int]) { panic("boom") }))
	m.AddObserver(recorder)

	assert.NotPanics(t, func() {
		require.NoError(t, m.SetCurrentState(1))
	})

	current, _ := m.TryCurrentState()
	assert.Equal(t, 1, current)
	assert.Equal(t, 1, recorder.ChangeCount(), "later observers still run")
	require.Len(t, recorder.Errors, 1)
	assert.Contains(t, recorder.Errors[0].Error(), "boom")
}

func TestObserverManager_NilObserverIgnored(t *testing.T) {
	om := NewObserverManager[int]()
	om.AddObserver(nil)
	assert.Equal(t, 0, om.Len())
}

func TestChangeKind_String(t *testing.T) {
	assert.Equal(t, "switch", ChangeSwitch.String())
	assert.Equal(t, "teleport", ChangeTeleport.String())
	assert.Equal(t, "unknown", ChangeKind(42).String())
}
