package dsp

import (
	"testing"

	"pgregory.net/rapid"
)

func TestXorBits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Uint32().Draw(t, "x")

		var want uint8
		for v := x; v != 0; v >>= 1 {
			want ^= uint8(v & 1)
		}
		if got := XorBits(x); got != want {
			t.Fatalf("XorBits(%#x) = %d, want %d", x, got, want)
		}
	})
}
