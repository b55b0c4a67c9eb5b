package services

import (
	"errors"
	"fmt"
)

var (
	// ErrLoginRequired means the caller must (re)authenticate: there is no
	// cached session, its role does not fit, or the server rejected the token.
	ErrLoginRequired = errors.New("login required")

	// ErrBusy rejects a duplicate submission while one is in flight.
	ErrBusy = errors.New("operation already in progress")
)

// ValidationError is raised before any network call when local input is
// unacceptable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) UserMessage() string {
	return e.Error()
}

// ValidationErrors collects several field problems.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msg := ""
	for i, e := range v {
		if i > 0 {
			msg += "; "
		}
		msg += e.Error()
	}
	return msg
}

func (v ValidationErrors) UserMessage() string {
	return v.Error()
}
