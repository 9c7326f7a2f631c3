package domain

import "errors"

var (
	// ErrAuthentication is returned when a webhook signature is absent or does not match.
	// Callers must reject the payload without processing it.
	ErrAuthentication = errors.New("webhook authentication failed")
	// ErrUnknownClick means no click carries the event's correlation id.
	// The event is dropped; the id will not appear later so retrying is pointless.
	ErrUnknownClick = errors.New("unknown click")
	// ErrUnknownStore is a referential integrity fault: a click points at a missing store.
	ErrUnknownStore = errors.New("unknown store")
	// ErrMalformedPayload signals a network payload that does not match its schema.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrStorage wraps faults from the backing store. Ingest is safe to retry after it.
	ErrStorage            = errors.New("storage unavailable")
	ErrUnsupportedNetwork = errors.New("unsupported network")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
)
