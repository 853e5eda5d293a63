package enc3

import (
	"errors"
	"fmt"
	"strings"
)

// Decode failure sentinels. Use errors.Is against these.
var (
	ErrTooShort            = errors.New("buffer shorter than header")
	ErrBadMagic            = errors.New("bad magic")
	ErrTruncatedPayload    = errors.New("payload truncated")
	ErrDecompressionFailed = errors.New("decompression failed")
	ErrChecksumMismatch    = errors.New("checksum mismatch")
	ErrExhausted           = errors.New("no candidate delta decoded the container")
)

// DecodeError records which delta a failed decode used.
type DecodeError struct {
	Delta  uint32
	Cause  error // one of the sentinels above
	Detail error // underlying library error, if any
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Detail != nil {
		return fmt.Sprintf("decode with delta 0x%08x: %v: %v", e.Delta, e.Cause, e.Detail)
	}
	return fmt.Sprintf("decode with delta 0x%08x: %v", e.Delta, e.Cause)
}

// Unwrap returns the sentinel cause.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// ExhaustedError is returned by BruteForcer when every delta failed.
type ExhaustedError struct {
	Tried []uint32
	Last  error // error from the final attempt
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	parts := make([]string, len(e.Tried))
	for i, d := range e.Tried {
		parts[i] = fmt.Sprintf("0x%08x", d)
	}
	return fmt.Sprintf("%v (tried %d: %s; last: %v)", ErrExhausted, len(e.Tried), strings.Join(parts, ","), e.Last)
}

// Unwrap exposes both the exhaustion sentinel and the last decode failure.
func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrExhausted, e.Last}
}

// IsFormatError reports whether err is a structural header failure that no
// delta can fix.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrTooShort) || errors.Is(err, ErrBadMagic) || errors.Is(err, ErrTruncatedPayload)
}
