package enc3

import "slices"

// DefaultCandidates is the ordered list of deltas tried after the preferred
// one. The order is part of the contract: when several deltas would decode
// the same buffer, the first one in this list is reported.
var DefaultCandidates = []uint32{
	0x9e3779b8,
	0x9e3779ba,
	0x61c88647,
	0x12345678,
	0x87654321,
	0xdeadbeef,
	0xcafebabe,
	0x00000000,
	0xffffffff,
	0x000018ef,
	0x12e3f4a5,
}

// Result is a successful brute-force decode.
type Result struct {
	Plaintext []byte
	Delta     uint32
	Attempts  int // decode calls made, the successful one included
}

// BruteForcer tries a preferred delta and then each candidate in order,
// stopping at the first that decodes.
type BruteForcer struct {
	Preferred  uint32
	Candidates []uint32

	// Decode defaults to the package Decode function.
	Decode DecodeFunc
}

// NewBruteForcer returns a BruteForcer with the default delta and candidate
// list.
func NewBruteForcer() *BruteForcer {
	return &BruteForcer{
		Preferred:  DefaultDelta,
		Candidates: slices.Clone(DefaultCandidates),
	}
}

// Order returns the deltas TryDecode attempts, in order, with duplicates of
// earlier entries removed.
func (b *BruteForcer) Order() []uint32 {
	order := make([]uint32, 0, 1+len(b.Candidates))
	order = append(order, b.Preferred)
	for _, d := range b.Candidates {
		if !slices.Contains(order, d) {
			order = append(order, d)
		}
	}
	return order
}

// TryDecode decodes buf with each delta from Order until one succeeds. A
// structural header failure stops the search at once, since the header does
// not depend on the delta. buf is never modified.
func (b *BruteForcer) TryDecode(buf []byte) (Result, error) {
	decode := b.Decode
	if decode == nil {
		decode = Decode
	}

	var (
		tried []uint32
		last  error
	)
	for _, delta := range b.Order() {
		tried = append(tried, delta)
		plain, err := decode(buf, delta)
		if err == nil {
			return Result{Plaintext: plain, Delta: delta, Attempts: len(tried)}, nil
		}
		last = err
		if IsFormatError(err) {
			break
		}
	}
	return Result{}, &ExhaustedError{Tried: tried, Last: last}
}
