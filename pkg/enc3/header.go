// Package enc3 decodes ENC3 containers.
//
// An ENC3 container is a 24-byte little-endian header followed by a payload
// that was zlib-compressed and then scrambled with a corrected block-mixing
// cipher (an XXTEA variant). Decoding reverses the mixing, inflates the
// stream and checks the Adler-32 of the result against the header.
//
// Layout:
//
//	[Magic:4 "ENC3"][Key:8][CompressedSize:4][PlainSize:4][Checksum:4][Payload:CompressedSize]
//
// The cipher's key schedule depends on a delta constant that is not stored in
// the file. [BruteForcer] tries a preferred delta and then an ordered list of
// candidates until one decodes cleanly.
package enc3

import (
	"bytes"
	"encoding/binary"
)

const (
	// Magic identifies an ENC3 container.
	Magic = "ENC3"

	// HeaderSize is the fixed size of the container header in bytes.
	HeaderSize = 24

	offKey            = 4
	offCompressedSize = 12
	offPlainSize      = 16
	offChecksum       = 20
)

var magicBytes = []byte(Magic)

// Header is the parsed form of a container header.
type Header struct {
	Magic          [4]byte
	Key            uint64
	CompressedSize uint32
	PlainSize      uint32
	Checksum       uint32 // Adler-32 of the plaintext
}

// ParseHeader reads the header fields from buf and checks that the payload
// they describe fits inside it. buf is not retained.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, ErrTooShort
	}
	if !bytes.Equal(buf[:4], magicBytes) {
		return Header{}, ErrBadMagic
	}

	var h Header
	copy(h.Magic[:], buf[:4])
	h.Key = binary.LittleEndian.Uint64(buf[offKey:])
	h.CompressedSize = binary.LittleEndian.Uint32(buf[offCompressedSize:])
	h.PlainSize = binary.LittleEndian.Uint32(buf[offPlainSize:])
	h.Checksum = binary.LittleEndian.Uint32(buf[offChecksum:])

	if uint64(h.CompressedSize) > uint64(len(buf)-HeaderSize) {
		return Header{}, ErrTruncatedPayload
	}
	return h, nil
}

// Payload returns the slice of buf holding the encrypted payload. It aliases
// buf; callers that mutate it must copy first.
func (h Header) Payload(buf []byte) []byte {
	return buf[HeaderSize : HeaderSize+int(h.CompressedSize)]
}

// IsContainer reports whether buf is long enough to hold a header and starts
// with the ENC3 magic. Anything else is not a container at all.
func IsContainer(buf []byte) bool {
	return len(buf) >= HeaderSize && bytes.Equal(buf[:4], magicBytes)
}

// PutHeader serializes h into the first HeaderSize bytes of dst.
func PutHeader(dst []byte, h Header) {
	_ = dst[HeaderSize-1]
	copy(dst[:4], h.Magic[:])
	binary.LittleEndian.PutUint64(dst[offKey:], h.Key)
	binary.LittleEndian.PutUint32(dst[offCompressedSize:], h.CompressedSize)
	binary.LittleEndian.PutUint32(dst[offPlainSize:], h.PlainSize)
	binary.LittleEndian.PutUint32(dst[offChecksum:], h.Checksum)
}
