package dsp

import (
	"math"

	"github.com/pavelyazev/PocketSDR/internal/cpx"
)

// NTBL is the number of carrier phase steps per cycle in the LUT.
const NTBL = 256

// genCarrTbl precomputes the carrier-mixed value for every (sample byte,
// phase index) pair. Entry (j<<8)|i holds
//
//	round(CSCALE * cpx8(j) * exp(-2*pi*1i*i/NTBL))
//
// so the mixer hot path is a single table lookup per sample.
func genCarrTbl() []cpx.CPX16 {
	tbl := make([]cpx.CPX16, 256*NTBL)
	for j := 0; j < 256; j++ {
		i8, q8 := cpx.CPX8(j).Decode()
		I, Q := float64(i8), float64(q8)
		for i := 0; i < NTBL; i++ {
			phi := 2.0 * math.Pi * float64(i) / NTBL
			c, s := math.Cos(phi), math.Sin(phi)
			tbl[j<<8|i] = cpx.CPX16{
				I: int16(math.Round(cpx.CSCALE * (I*c + Q*s))),
				Q: int16(math.Round(cpx.CSCALE * (Q*c - I*s))),
			}
		}
	}
	return tbl
}
