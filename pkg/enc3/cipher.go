package enc3

import "encoding/binary"

// Fixed words of the key schedule. The first two words come from the
// container key.
const (
	scheduleWord2 uint32 = 0x1A2B3C4D
	scheduleWord3 uint32 = 0xD1F2E3C4
)

// KeySchedule is the four-word schedule consulted by every mixing round.
type KeySchedule [4]uint32

// NewKeySchedule splits key into its high and low halves and appends the
// fixed words.
func NewKeySchedule(key uint64) KeySchedule {
	return KeySchedule{uint32(key >> 32), uint32(key), scheduleWord2, scheduleWord3}
}

// Rounds returns the number of mixing rounds for n words.
func Rounds(n int) uint32 {
	return uint32(6 + 52/n)
}

// MX is the nonlinear word combination shared by both mixing directions.
func MX(k KeySchedule, sum, y, z uint32, p, e uint32) uint32 {
	return ((z>>5 ^ y<<2) + (y>>3 ^ z<<4)) ^ ((sum ^ y) + (k[(p&3)^e] ^ z))
}

// Unmix reverses the block mixing over buf in place. buf is treated as
// little-endian 32-bit words; trailing bytes that do not fill a word are left
// as they are. Buffers holding fewer than two words are not touched.
func Unmix(buf []byte, key uint64, delta uint32) {
	n := len(buf) / 4
	if n < 2 {
		return
	}

	v := make([]uint32, n)
	for i := range v {
		v[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}

	k := NewKeySchedule(key)
	rounds := Rounds(n)
	sum := rounds * delta
	y := v[0]
	for ; rounds > 0; rounds-- {
		e := (sum >> 2) & 3
		for p := n - 1; p > 0; p-- {
			z := v[p-1]
			v[p] -= MX(k, sum, y, z, uint32(p), e)
			y = v[p]
		}
		z := v[n-1]
		v[0] -= MX(k, sum, y, z, 0, e)
		y = v[0]
		sum -= delta
	}

	for i, w := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
}
