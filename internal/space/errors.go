package space

import "errors"

var (
	ErrDuplicateParameter = errors.New("space: duplicate parameter")
	ErrEmptyDomain        = errors.New("space: empty parameter domain")
	ErrUnknownParameter   = errors.New("space: unknown parameter")

	// ErrSpaceExhausted is returned when rejection sampling cannot find a
	// valid configuration within the retry bound.
	ErrSpaceExhausted = errors.New("space: no valid configuration found within sampling bound")
)
