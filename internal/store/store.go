// Package store holds the client-side view of the task and tag collections:
// what the list currently shows, reconciled after each server round trip.
//
// Every asynchronous operation that lands in a collection carries a sequence
// token — per fetch for list replacement, per entity id for mutations — and a
// response bearing anything but the latest issued token for its scope is
// discarded. Network completions may arrive in any order; the tokens keep a
// later-issued operation's effect from being overwritten by an earlier one.
package store

import (
	"errors"

	"taskflow-cli/internal/api"
)

// errText prefers the server's normalized message over Go error plumbing.
func errText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// isUnauthenticated reports whether err is a 401. List operations treat that
// as "not signed in yet": an empty page, not a user-visible error.
func isUnauthenticated(err error) bool {
	var apiErr *api.Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}
