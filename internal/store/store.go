package store

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock is returned by a conditional stock decrement when
	// the product no longer has enough stock, including the case where a
	// concurrent checkout won the race.
	ErrInsufficientStock = errors.New("insufficient stock")
)
