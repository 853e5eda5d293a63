package pipeline

import (
	"errors"

	"github.com/dd0wney/enc3-recover/pkg/enc3"
	"github.com/dd0wney/enc3-recover/pkg/replace"
)

// ErrReadFailed is returned when a queued file cannot be read.
var ErrReadFailed = errors.New("read failed")

// errPanic marks a file whose handler panicked.
var errPanic = errors.New("panic")

// Error kinds reported in diagnostics and failure metrics.
const (
	KindTooShort            = "TooShort"
	KindBadMagic            = "BadMagic"
	KindTruncatedPayload    = "TruncatedPayload"
	KindDecompressionFailed = "DecompressionFailed"
	KindChecksumMismatch    = "ChecksumMismatch"
	KindExhausted           = "BruteForceExhausted"
	KindIOReadFailed        = "IOReadFailed"
	KindIOWriteFailed       = "IOWriteFailed"
	KindBackupFailed        = "BackupFailed"
	KindPanic               = "Panic"
	KindUnknown             = "Unknown"
)

// kinds is checked in order. Structural header errors come before
// ErrExhausted because a search stopped by one reports it as its last error.
var kinds = []struct {
	err  error
	kind string
}{
	{ErrReadFailed, KindIOReadFailed},
	{replace.ErrBackupFailed, KindBackupFailed},
	{replace.ErrWriteFailed, KindIOWriteFailed},
	{enc3.ErrTooShort, KindTooShort},
	{enc3.ErrBadMagic, KindBadMagic},
	{enc3.ErrTruncatedPayload, KindTruncatedPayload},
	{enc3.ErrExhausted, KindExhausted},
	{enc3.ErrDecompressionFailed, KindDecompressionFailed},
	{enc3.ErrChecksumMismatch, KindChecksumMismatch},
	{errPanic, KindPanic},
}

// Kind maps err to its kind name. A nil error has no kind.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}
