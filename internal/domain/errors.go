package domain

import "errors"

var (
	// ErrNotFound: a single-entity lookup found nothing in either store.
	ErrNotFound = errors.New("not found")

	// ErrInventoryUnavailable: the external call failed and the directory
	// fallback was empty.
	ErrInventoryUnavailable = errors.New("hotel inventory unavailable")
)
