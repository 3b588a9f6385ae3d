// Package services implements the claim/link workflow on top of the
// registries and the event log.
// This file centralizes service-level error values so callers (the chat
// adapter, the status API) can classify outcomes with errors.Is.
//
// Conflicts are reported through these errors together with a value that
// carries the existing state; translating them into user-facing notices or
// HTTP status codes happens at the edges.
package services

import "errors"

// Workflow errors.
var (
	// ErrWrongChannel is returned when a claim or log button is pressed
	// outside the booster channel. No state is changed.
	ErrWrongChannel = errors.New("interaction outside the booster channel")

	// ErrAlreadyClaimed is returned when the order already has a claimant.
	ErrAlreadyClaimed = errors.New("order already claimed")

	// ErrNoOrderID indicates that no order identifier could be extracted.
	ErrNoOrderID = errors.New("no order id")

	// ErrUnknownAction is returned for button actions the workflow does not
	// handle.
	ErrUnknownAction = errors.New("unknown button action")

	// ErrMalformedCustomID is returned when a button identifier is not of the
	// form "<action>:<order>".
	ErrMalformedCustomID = errors.New("malformed button identifier")
)

// Status query errors.
var (
	// ErrInvalidOrderID is returned when a queried id is not an order token.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrOrderNotFound indicates that neither registry knows the order.
	ErrOrderNotFound = errors.New("order not found")

	// ErrStatsUnavailable is returned when the configured log substrate
	// cannot report statistics.
	ErrStatsUnavailable = errors.New("log statistics unavailable")
)
