package dsp

import (
	"math"

	"github.com/pavelyazev/PocketSDR/internal/cpx"
)

// MixCarr mixes n IF samples starting at buffer index ix with a local
// carrier of frequency fc (Hz) and initial phase phi (cycles), writing the
// result to out[:n].
//
// The carrier NCO runs as an unsigned 32-bit fixed-point accumulator with
// 24 fractional bits; the top 8 bits index the LUT phase. NTBL*2^24 = 2^32,
// so the accumulator wraps exactly on the table period and the per-sample
// loop touches no floating point. Reads past the end of the buffer wrap to
// index 0.
func (e *Engine) MixCarr(buff *cpx.Buffer, ix, n int, fs, fc, phi float64, out []cpx.CPX16) {
	p := uint32(uint64((phi - math.Floor(phi)) * (1 << 32)))
	step := uint32(int64(fc / fs * (1 << 32)))

	data := buff.Data
	ix %= buff.N
	if ix < 0 {
		ix += buff.N
	}
	for i := 0; i < n; {
		run := buff.N - ix
		if run > n-i {
			run = n - i
		}
		for _, s := range data[ix : ix+run] {
			out[i] = e.lut[uint32(s)<<8|p>>24]
			p += step
			i++
		}
		ix = 0
	}
}
