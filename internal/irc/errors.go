package irc

import "errors"

var (
	// ErrArgument marks a required argument that was absent. It is returned
	// to the caller immediately rather than tracked against an event.
	ErrArgument = errors.New("missing argument")
	// ErrProtocolAnomaly marks a well-formed message missing a field the
	// client needs. It is tracked against the event, never fatal.
	ErrProtocolAnomaly = errors.New("protocol anomaly")
)
