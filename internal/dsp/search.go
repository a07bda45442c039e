package dsp

import (
	"context"

	"github.com/pavelyazev/PocketSDR/internal/cpx"
)

// DopStep is the Doppler search grid spacing in cycles per code period.
const DopStep = 0.5

// DopBins generates the Doppler search grid for a code period of T
// seconds: bins spaced DopStep/T Hz covering [dopCenter-maxDop,
// dopCenter+maxDop].
func DopBins(T, dopCenter, maxDop float64) []float64 {
	step := DopStep / T
	fds := make([]float64, int(2.0*maxDop/step)+1)
	for i := range fds {
		fds[i] = dopCenter - maxDop + float64(i)*step
	}
	return fds
}

// SearchCode runs an FFT correlation of one code period against every
// Doppler bin in fds and accumulates signal power into the grid
// p[len(fds)*n], laid out row-major as p[i*n+j] for Doppler bin i and code
// offset j. The grid is additive across calls, so repeated calls over
// consecutive code periods integrate non-coherently.
//
// The context is checked once per Doppler bin; cancelling it abandons the
// sweep, leaving p with the bins accumulated so far.
func (e *Engine) SearchCode(ctx context.Context, codeFFT []complex64, T float64, buff *cpx.Buffer, ix int, fs, fi float64, fds []float64, p []float32) error {
	n := len(codeFFT)
	iq := make([]cpx.CPX16, n)
	c := make([]complex64, n)

	for i, fd := range fds {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.MixCarr(buff, ix, n, fs, fi+fd, 0.0, iq)
		if err := e.CorrFFT(iq, codeFFT, c); err != nil {
			return err
		}
		row := p[i*n : (i+1)*n]
		for j, v := range c {
			re, im := real(v), imag(v)
			row[j] += re*re + im*im
		}
	}
	return nil
}
