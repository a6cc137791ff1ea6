// Package fsm provides a finite state machine structure: a set of states, the
// transitions between them, designated begin and end states and a current
// state that only moves along declared transitions.
//
// Machines are built either incrementally through Machine methods or in bulk
// through a Factory, which applies a Definition atomically. Definitions can be
// written in Go or decoded from YAML.
//
// Most queries come in two flavours: a strict method returning an error when
// the machine is not in a usable condition, and a Try variant returning an
// empty value instead.
package fsm
