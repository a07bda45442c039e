package dsp

import (
	"math"

	"github.com/pavelyazev/PocketSDR/internal/cpx"
)

// CorrStd computes time-domain correlations of the mixed samples iq[:n]
// against a local code replica at the integer offsets in pos, writing one
// complex value per offset to out. The code components are in {-1, 0, +1},
// so each product is a sign applied to the sample; sums run in int64 and
// the result is normalized by the active window length and by CSCALE.
//
// For offset k > 0 the window is iq[k:n] against code[:n-k]; for k < 0 it
// is iq[:n+k] against code[-k:n]; k = 0 uses the full window.
func CorrStd(iq, code []cpx.CPX16, n int, pos []int, out []complex64) {
	for i, k := range pos {
		var a, b, m int
		switch {
		case k > 0:
			a, b, m = k, 0, n-k
		case k < 0:
			a, b, m = 0, -k, n+k
		default:
			m = n
		}
		var sumI, sumQ int64
		for j := 0; j < m; j++ {
			switch code[b+j].I {
			case 1:
				sumI += int64(iq[a+j].I)
				sumQ += int64(iq[a+j].Q)
			case -1:
				sumI -= int64(iq[a+j].I)
				sumQ -= int64(iq[a+j].Q)
			}
		}
		s := 1.0 / (float32(m) * cpx.CSCALE)
		out[i] = complex(float32(sumI)*s, float32(sumQ)*s)
	}
}

// CorrFFT computes the circular correlation of the mixed samples against a
// precomputed code spectrum:
//
//	out = IFFT(FFT(iq/CSCALE) * codeFFT) / N^2
//
// with one 1/N folded into the element-wise multiply and the other applied
// after the unnormalized backward transform. The transform pair comes from
// the plan cache; if the cache is full the outputs are left untouched and
// ErrPlanCacheFull is returned.
func (e *Engine) CorrFFT(iq []cpx.CPX16, codeFFT []complex64, out []complex64) error {
	n := len(iq)
	ft, pool, err := e.acquirePlan(n)
	if err != nil {
		return err
	}
	defer pool.Put(ft)

	w := make([]complex128, n)
	for i, s := range iq {
		w[i] = complex(float64(s.I)/cpx.CSCALE, float64(s.Q)/cpx.CSCALE)
	}
	f := make([]complex128, n)
	ft.Coefficients(f, w)

	inv := complex(1/float64(n), 0)
	for i := range f {
		f[i] *= complex128(codeFFT[i]) * inv
	}
	ft.Sequence(w, f)

	for i := range w {
		out[i] = complex64(w[i] * inv)
	}
	return nil
}

// CodeFFT resamples a +/-1 spreading code of period T (seconds) to the
// sampling rate fs, zero-pads it to n samples, and returns the conjugated
// forward spectrum in the form CorrFFT consumes. coff shifts the code
// phase by the given time offset.
func (e *Engine) CodeFFT(code []int8, T, coff, fs float64, n int) ([]complex64, error) {
	ft, pool, err := e.acquirePlan(n)
	if err != nil {
		return nil, err
	}
	defer pool.Put(ft)

	nc := len(code)
	tc := T / float64(nc)         // chip period
	ns := int(math.Round(T * fs)) // samples in one code period
	if ns > n {
		ns = n
	}
	w := make([]complex128, n)
	for i := 0; i < ns; i++ {
		chip := int((float64(i)/fs + coff) / tc)
		chip %= nc
		if chip < 0 {
			chip += nc
		}
		w[i] = complex(float64(code[chip]), 0)
	}
	f := make([]complex128, n)
	ft.Coefficients(f, w)

	out := make([]complex64, n)
	for i, v := range f {
		out[i] = complex64(complex(real(v), -imag(v)))
	}
	return out, nil
}
