package pokedex

import "errors"

var (
	// ErrEmptyIdentifier is returned when a name or id argument is blank.
	ErrEmptyIdentifier = errors.New("name or id must not be empty")
	// ErrUnknownIdentifier is returned when a cross-reference URL carries no
	// numeric identifier.
	ErrUnknownIdentifier = errors.New("resource url has no numeric identifier")
	// ErrNoMachine is returned by MoveMachine when the move is not taught by
	// a machine in the requested version group.
	ErrNoMachine = errors.New("move has no machine in version group")
)
