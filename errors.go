package fsm

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error conditions in the state machine
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// Caller referenced an unknown state, a duplicate or a malformed definition
	ErrCodeInvalidArgument
	// Machine is not defined or has no current state
	ErrCodeInvalidState
	// Requested state is not reachable from the current state
	ErrCodeInvalidTransition
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidTransition = errors.New("invalid transition")
)

// ArgumentError is returned when a caller supplies a state, transition or
// definition the machine cannot accept.
type ArgumentError struct {
	Code    ErrorCode
	Message string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

// Is reports whether target is ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// NewArgumentError creates a new argument error
func NewArgumentError(format string, args ...any) *ArgumentError {
	return &ArgumentError{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewUnknownStateError creates an error for a state that is not defined
func NewUnknownStateError(state any) *ArgumentError {
	return NewArgumentError("unknown state %q", fmt.Sprint(state))
}

// StateError is returned when the machine is not defined or not active and the
// caller did not ask for graceful behavior.
type StateError struct {
	Code    ErrorCode
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

// Is reports whether target is ErrInvalidState.
func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

// NewStateError creates a new invalid state error
func NewStateError(message string) *StateError {
	return &StateError{
		Code:    ErrCodeInvalidState,
		Message: message,
	}
}

// NewNotDefinedError creates the error returned by strict queries on an empty machine
func NewNotDefinedError() *StateError {
	return NewStateError("states not defined")
}

// NewNotInitializedError creates the error returned when no current state is set
func NewNotInitializedError() *StateError {
	return NewStateError("current state not initialized")
}

// TransitionError represents a switch to a state that is not reachable from
// the current state. It is a specialization of ArgumentError.
type TransitionError struct {
	Code ErrorCode
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot switch from %q to %q", e.From, e.To)
}

// Is reports whether target is ErrInvalidTransition or ErrInvalidArgument.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition || target == ErrInvalidArgument
}

// NewTransitionError creates a new transition error
func NewTransitionError(from, to any) *TransitionError {
	return &TransitionError{
		Code: ErrCodeInvalidTransition,
		From: fmt.Sprint(from),
		To:   fmt.Sprint(to),
	}
}

// IsArgumentError checks if an error is an invalid argument error, including
// transition errors
func IsArgumentError(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsStateError checks if an error is a StateError
func IsStateError(err error) bool {
	var e *StateError
	return errors.As(err, &e)
}

// IsTransitionError checks if an error is a TransitionError
func IsTransitionError(err error) bool {
	var e *TransitionError
	return errors.As(err, &e)
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) ErrorCode {
	var (
		argErr   *ArgumentError
		stateErr *StateError
		transErr *TransitionError
	)
	switch {
	case errors.As(err, &transErr):
		return transErr.Code
	case errors.As(err, &argErr):
		return argErr.Code
	case errors.As(err, &stateErr):
		return stateErr.Code
	default:
		return ErrCodeNone
	}
}
