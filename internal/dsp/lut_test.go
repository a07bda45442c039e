package dsp

import (
	"math"
	"testing"

	"github.com/pavelyazev/PocketSDR/internal/cpx"
)

func TestCarrTbl_Consistency(t *testing.T) {
	e := New()
	for j := 0; j < 256; j++ {
		i8, q8 := cpx.CPX8(j).Decode()
		I, Q := float64(i8), float64(q8)
		for i := 0; i < NTBL; i++ {
			phi := 2.0 * math.Pi * float64(i) / NTBL
			wantI := math.Round(cpx.CSCALE * (I*math.Cos(phi) + Q*math.Sin(phi)))
			wantQ := math.Round(cpx.CSCALE * (Q*math.Cos(phi) - I*math.Sin(phi)))

			got := e.lut[j<<8|i]
			if math.Abs(float64(got.I)-wantI) > 1 || math.Abs(float64(got.Q)-wantQ) > 1 {
				t.Fatalf("lut[%d<<8|%d] = (%d,%d), want (%.0f,%.0f)",
					j, i, got.I, got.Q, wantI, wantQ)
			}
		}
	}
}
