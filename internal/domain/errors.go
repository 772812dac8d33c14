package domain

import "errors"

var (
	// ErrNotFound is returned by stores when the requested entity does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when creating an entity whose ID is
	// already taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNoTurns is returned when analysis is requested for a
	// conversation with an empty turn sequence. It is the explicit "not
	// analyzable" indicator: callers must not confuse it with a report
	// full of zeros.
	ErrNoTurns = errors.New("conversation has no turns")
)
