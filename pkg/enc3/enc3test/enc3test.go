// Package enc3test builds ENC3 containers for tests. It is not used by the
// decoder itself.
package enc3test

import (
	"bytes"
	"encoding/binary"
	"hash/adler32"

	"github.com/klauspost/compress/zlib"

	"github.com/dd0wney/enc3-recover/pkg/enc3"
)

// DefaultKey is the key Build uses when none is given.
const DefaultKey uint64 = 0x0123456789abcdef

// Mix applies the forward block mixing over buf in place. It is the inverse
// of enc3.Unmix for the same key and delta.
func Mix(buf []byte, key uint64, delta uint32) {
	n := len(buf) / 4
	if n < 2 {
		return
	}

	v := make([]uint32, n)
	for i := range v {
		v[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}

	k := enc3.NewKeySchedule(key)
	var sum uint32
	z := v[n-1]
	for rounds := enc3.Rounds(n); rounds > 0; rounds-- {
		sum += delta
		e := (sum >> 2) & 3
		for p := 0; p < n-1; p++ {
			y := v[p+1]
			v[p] += enc3.MX(k, sum, y, z, uint32(p), e)
			z = v[p]
		}
		y := v[0]
		v[n-1] += enc3.MX(k, sum, y, z, uint32(n-1), e)
		z = v[n-1]
	}

	for i, w := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
}

// Compress returns the zlib encoding of plain.
func Compress(plain []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(plain)
	_ = zw.Close()
	return buf.Bytes()
}

// Build returns a complete container holding plain, mixed with key and delta.
func Build(plain []byte, key uint64, delta uint32) []byte {
	payload := Compress(plain)
	Mix(payload, key, delta)
	return Assemble(enc3.Header{
		Key:            key,
		CompressedSize: uint32(len(payload)),
		PlainSize:      uint32(len(plain)),
		Checksum:       adler32.Checksum(plain),
	}, payload)
}

// Assemble writes h (with the ENC3 magic) followed by payload. The header
// fields are taken as given, so callers can build inconsistent containers.
func Assemble(h enc3.Header, payload []byte) []byte {
	copy(h.Magic[:], enc3.Magic)
	out := make([]byte, enc3.HeaderSize+len(payload))
	enc3.PutHeader(out, h)
	copy(out[enc3.HeaderSize:], payload)
	return out
}

// Truncate returns a copy of container with its payload cut short by n bytes
// while the header still declares the original size.
func Truncate(container []byte, n int) []byte {
	cut := max(len(container)-n, enc3.HeaderSize)
	return bytes.Clone(container[:cut])
}
