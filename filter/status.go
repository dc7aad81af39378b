package filter

import (
	"fmt"
	"strings"

	"github.com/s0up4200/ombibot/ombi"
)

// Status is a named request-status predicate
type Status string

const (
	StatusApproved    Status = "approved"
	StatusUnapproved  Status = "unapproved"
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusDenied      Status = "denied"
	StatusReleased    Status = "released"
)

// UnknownStatusError indicates a filter name outside the fixed predicate set.
// Callers surface it as a usage error before the engine runs.
type UnknownStatusError struct {
	Name string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown filter %q", e.Name)
}

// ParseStatus parses a single case-insensitive status predicate name
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusApproved:
		return StatusApproved, nil
	case StatusUnapproved:
		return StatusUnapproved, nil
	case StatusAvailable:
		return StatusAvailable, nil
	case StatusUnavailable:
		return StatusUnavailable, nil
	case StatusDenied:
		return StatusDenied, nil
	case StatusReleased:
		return StatusReleased, nil
	default:
		return "", &UnknownStatusError{Name: strings.TrimSpace(s)}
	}
}

// State is a resolved request status: the record's own boolean when present,
// otherwise the child request's, otherwise unknown.
type State int

const (
	// StateUnknown means neither the record nor its child request carried the field
	StateUnknown State = iota
	// StateTrue means the resolved boolean is true
	StateTrue
	// StateFalse means the resolved boolean is false
	StateFalse
)

// True reports whether the state resolved to true
func (s State) True() bool {
	return s == StateTrue
}

// Known reports whether the field was present at either level
func (s State) Known() bool {
	return s != StateUnknown
}

// RequestState carries the three resolved status booleans of one record
type RequestState struct {
	Approved  State
	Available State
	Denied    State
}

// Resolve normalizes a record's duck-typed status fields into explicit states.
// Show requests lack the top-level booleans; their child request shadows them.
func Resolve(r *ombi.MediaRequest) RequestState {
	child := r.Child()
	return RequestState{
		Approved:  resolveBool(r.Approved, child, func(c *ombi.ChildRequest) *bool { return c.Approved }),
		Available: resolveBool(r.Available, child, func(c *ombi.ChildRequest) *bool { return c.Available }),
		Denied:    resolveBool(r.Denied, child, func(c *ombi.ChildRequest) *bool { return c.Denied }),
	}
}

func resolveBool(direct *bool, child *ombi.ChildRequest, pick func(*ombi.ChildRequest) *bool) State {
	if direct != nil {
		return toState(*direct)
	}
	if child != nil {
		if v := pick(child); v != nil {
			return toState(*v)
		}
	}
	return StateUnknown
}

func toState(b bool) State {
	if b {
		return StateTrue
	}
	return StateFalse
}
