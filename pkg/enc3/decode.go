package enc3

import (
	"bytes"
	"hash/adler32"
	"io"

	"github.com/klauspost/compress/zlib"
)

// DefaultDelta is the well-known key schedule constant most containers use.
const DefaultDelta uint32 = 0x9e3779b9

// DecodeFunc decodes a container with a given delta.
type DecodeFunc func(buf []byte, delta uint32) ([]byte, error)

// Decode recovers the plaintext of the container in buf using delta.
//
// buf is never modified, so a failed call can be retried with another delta
// against the same buffer. Decode holds no state and is safe for concurrent
// use.
func Decode(buf []byte, delta uint32) ([]byte, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, &DecodeError{Delta: delta, Cause: err}
	}

	payload := bytes.Clone(h.Payload(buf))
	Unmix(payload, h.Key, delta)

	plain, err := inflate(payload, h.PlainSize)
	if err != nil {
		return nil, &DecodeError{Delta: delta, Cause: ErrDecompressionFailed, Detail: err}
	}

	if adler32.Checksum(plain) != h.Checksum {
		return nil, &DecodeError{Delta: delta, Cause: ErrChecksumMismatch}
	}
	return plain, nil
}

// inflate decompresses a zlib stream that must yield exactly size bytes.
func inflate(payload []byte, size uint32) ([]byte, error) {
	if len(payload) == 0 {
		if size != 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return []byte{}, nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	// The header is untrusted; grow with the stream instead of allocating
	// size bytes up front.
	hint := min(int(size), 4*len(payload)+512)
	out := bytes.NewBuffer(make([]byte, 0, hint))

	// One byte past size detects a stream longer than advertised.
	n, err := io.Copy(out, io.LimitReader(zr, int64(size)+1))
	if err != nil {
		return nil, err
	}
	if n != int64(size) {
		return nil, errSizeMismatch{want: size, got: n}
	}
	return out.Bytes(), nil
}

type errSizeMismatch struct {
	want uint32
	got  int64
}

func (e errSizeMismatch) Error() string {
	if e.got > int64(e.want) {
		return "stream longer than declared size"
	}
	return "stream shorter than declared size"
}
