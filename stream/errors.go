package stream

import "fmt"

// DuplicateListenerError is raised synchronously from the second Listen
// call on a single-subscription [Source]. It is a programmer fault and is
// never absorbed by a cancellation filter.
type DuplicateListenerError struct {
	SourceName string
}

func (e *DuplicateListenerError) Error() string {
	if e.SourceName == "" {
		return "stream: source already has a listener (single-subscription)"
	}
	return fmt.Sprintf("stream: source %q already has a listener (single-subscription)", e.SourceName)
}

// ArgumentError is a programmer fault raised synchronously for invalid
// arguments, e.g. calling [Merge] with zero sources.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string { return "stream: " + e.Msg }
