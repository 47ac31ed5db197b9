package usecase

import "errors"

var (
	// ErrEmptySelection is returned when an assignment is attempted with no
	// tables chosen.
	ErrEmptySelection = errors.New("no tables selected")

	// ErrTableUnavailable is returned when a requested table is already
	// reserved or occupied for the reservation's date and service by a
	// different reservation.
	ErrTableUnavailable = errors.New("table unavailable")

	// ErrInvalidTransition is returned when a lifecycle operation is not a
	// legal edge from the reservation's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput is returned for malformed caller input (unknown table
	// number, missing required fields, off-slot times).
	ErrInvalidInput = errors.New("invalid input")
)
