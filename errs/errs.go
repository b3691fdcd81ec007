// Package errs holds the error kinds shared by the lottery packages.
//
// Callers match kinds with errors.Is; the concrete error text carries the detail.
package errs

import "errors"

var (
	// ErrInvalidInput covers malformed wagers, slips, configuration values and
	// references to draws that have not executed yet.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when a ticket is presented at an outlet that did not sell it.
	ErrUnauthorized = errors.New("ticket not sold by this outlet")
	// ErrAlreadyClaimed is returned when a ticket is presented a second time.
	ErrAlreadyClaimed = errors.New("ticket already claimed")
)
