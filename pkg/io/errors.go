package io

import "fmt"

// FormatError reports a deterministic decoding failure at a byte offset in
// a wire stream. Offset is -1 when the failing field has no single
// meaningful byte position (e.g. a bound violated after full decode).
type FormatError struct {
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Offset < 0 {
		return "format error: " + e.Reason
	}
	return fmt.Sprintf("format error at offset %d: %s", e.Offset, e.Reason)
}

// FormatErrorf builds a *FormatError with a formatted reason.
func FormatErrorf(offset int, format string, args ...interface{}) error {
	return &FormatError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
