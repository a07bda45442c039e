// Package dsp implements the acquisition/correlation core of the receiver:
// fixed-point carrier mixing against a precomputed lookup table, time- and
// frequency-domain correlators, the shared FFT plan cache, and the parallel
// code search with peak detection and Doppler refinement.
package dsp

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/pavelyazev/PocketSDR/internal/cpx"
)

// Engine carries the process-wide numeric state: the carrier LUT and the
// FFT plan cache. One engine may be shared by any number of goroutines;
// each call supplies its own output and scratch buffers.
type Engine struct {
	lut []cpx.CPX16 // carrier LUT, 256 sample keys x NTBL phases

	mu    sync.Mutex // serializes plan installation
	plans []planSlot
	log   *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine diagnostics to the given logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithWisdom pre-plans the transform sizes listed in the given file.
// Import failure is a warning, not an error: planning proceeds lazily.
func WithWisdom(path string) Option {
	return func(e *Engine) {
		if path == "" {
			return
		}
		if err := e.ImportWisdom(path); err != nil {
			e.log.Warn("wisdom import failed", "file", path, "err", err)
		}
	}
}

// New builds an engine with its carrier LUT initialized.
func New(opts ...Option) *Engine {
	e := &Engine{
		lut:   genCarrTbl(),
		plans: make([]planSlot, 0, MaxFFTPlan),
		log:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the lazily-initialized shared engine for call sites that
// do not carry one explicitly.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = New()
	})
	return defaultEngine
}

// MixCarr mixes via the default engine.
func MixCarr(buff *cpx.Buffer, ix, n int, fs, fc, phi float64, out []cpx.CPX16) {
	Default().MixCarr(buff, ix, n, fs, fc, phi, out)
}

// CorrFFT correlates via the default engine.
func CorrFFT(iq []cpx.CPX16, codeFFT []complex64, out []complex64) error {
	return Default().CorrFFT(iq, codeFFT, out)
}

// SearchCode searches via the default engine.
func SearchCode(ctx context.Context, codeFFT []complex64, T float64, buff *cpx.Buffer, ix int, fs, fi float64, fds []float64, p []float32) error {
	return Default().SearchCode(ctx, codeFFT, T, buff, ix, fs, fi, fds, p)
}
