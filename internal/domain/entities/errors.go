package entities

import "errors"

// Error categories. Callers wrap these with context and test with errors.Is.
var (
	// ErrInput covers unreadable or malformed presentation sources.
	ErrInput = errors.New("invalid input")
	// ErrConfig covers invalid or missing configuration.
	ErrConfig = errors.New("invalid configuration")
	// ErrOutput covers failures writing a report.
	ErrOutput = errors.New("output failed")
	// ErrUnsupportedFormat is returned for unknown report formats.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrRunNotFound is returned when a history lookup misses.
	ErrRunNotFound = errors.New("run not found")
)
