package dsp

import "math"

// CorrMax scans the power grid sub-region of m Doppler rows by nmax code
// offsets (row stride n) for its maximum, and estimates the carrier-to-
// noise density from the peak against the region mean:
//
//	cn0 = 10*log10((max-mean)/mean/T)  [dB-Hz]
//
// The mean is maintained incrementally over the same region. Ties go to
// the first cell in row-major order; a non-positive mean yields cn0 = 0.
func CorrMax(p []float32, n, nmax, m int, T float64) (ixDop, ixCode int, cn0 float64) {
	var maxP, mean float64
	cnt := 0
	for i := 0; i < m; i++ {
		for j := 0; j < nmax; j++ {
			x := float64(p[i*n+j])
			if x > maxP {
				maxP = x
				ixDop, ixCode = i, j
			}
			cnt++
			mean += (x - mean) / float64(cnt)
		}
	}
	if mean > 0 {
		cn0 = 10.0 * math.Log10((maxP-mean)/mean/T)
	}
	return
}

// FineDop refines the Doppler estimate at peak indexes (ixDop, ixCode) by
// fitting a parabola through the three power samples on neighboring
// Doppler bins and returning its vertex. Peaks on the grid edge, and
// degenerate fits, fall back to the coarse bin frequency.
func FineDop(p []float32, n int, fds []float64, ixDop, ixCode int) float64 {
	if ixDop == 0 || ixDop == len(fds)-1 {
		return fds[ixDop]
	}
	y0 := float64(p[(ixDop-1)*n+ixCode])
	y1 := float64(p[ixDop*n+ixCode])
	y2 := float64(p[(ixDop+1)*n+ixCode])

	// exact 3-point fit on unit-spaced abscissae: vertex at -p1/(2*p2)
	den := y0 - 2.0*y1 + y2
	if den == 0 {
		return fds[ixDop]
	}
	step := fds[ixDop] - fds[ixDop-1]
	return fds[ixDop] + step*(y0-y2)/(2.0*den)
}
