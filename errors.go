package main

import "errors"

var (
	// ErrEmptyInput is returned when there are no segments to weight.
	// It aborts the whole computation; no partial result is produced.
	ErrEmptyInput = errors.New("input list of segments is empty")

	// ErrInvalidConfig wraps configuration validation failures.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedFormat is returned for unknown input or output formats.
	ErrUnsupportedFormat = errors.New("unsupported format")
)
