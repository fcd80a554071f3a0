package dedup

import "errors"

var (
	// ErrMalformedInput wraps any error returned by a record source.
	ErrMalformedInput = errors.New("malformed input")

	// ErrAllocationFailure is returned when the fingerprint index cannot grow.
	ErrAllocationFailure = errors.New("fingerprint index cannot grow")

	// ErrUnknownHasher is returned by NewHasher for an unsupported name.
	ErrUnknownHasher = errors.New("unknown hash function")

	// ErrFinished is returned when a filter that already reached a terminal
	// state is asked to process another stream.
	ErrFinished = errors.New("filter already finished")
)
