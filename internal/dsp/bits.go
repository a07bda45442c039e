package dsp

import "math/bits"

// XorBits folds all 32 bits of x down to their parity.
func XorBits(x uint32) uint8 {
	return uint8(bits.OnesCount32(x) & 1)
}
