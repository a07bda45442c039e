package dsp

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/pavelyazev/PocketSDR/internal/cpx"
)

func TestDopBins(t *testing.T) {
	fds := DopBins(1e-3, 0, 5000)
	if len(fds) != 21 {
		t.Fatalf("got %d bins, want 21", len(fds))
	}
	for i, fd := range fds {
		want := -5000.0 + float64(i)*500.0
		if fd != want {
			t.Errorf("bin %d = %f, want %f", i, fd, want)
		}
	}
}

func TestSearchCode_FindsSignal(t *testing.T) {
	e := New()
	rng := rand.New(rand.NewSource(5))

	// dyadic rates keep the synthesized carrier and the code resampling
	// exact; the math is scale-invariant
	const (
		n   = 256
		fs  = 256.0
		T   = 1.0
		fi  = 32.0
		fd  = 1.0 // on-grid Doppler
		tau = 77  // code offset in samples
	)
	code := randCode(n, rng)

	buff := cpx.NewBuffer(2*n, cpx.SamplingIQ)
	for k := range buff.Data {
		theta := 2.0 * math.Pi * (fi + fd) * float64(k) / fs
		a := float64(code[((k-tau)%n+n)%n]) * 7.0
		buff.Data[k] = cpx.PackCPX8(
			int8(math.Round(a*math.Cos(theta))),
			int8(math.Round(a*math.Sin(theta))))
	}

	codeFFT, err := e.CodeFFT(code, T, 0, fs, n)
	if err != nil {
		t.Fatal(err)
	}

	fds := DopBins(T, 0, 2.0) // 9 bins at 0.5 Hz
	p := make([]float32, len(fds)*n)
	if err := e.SearchCode(context.Background(), codeFFT, T, buff, 0, fs, fi, fds, p); err != nil {
		t.Fatal(err)
	}

	ixDop, ixCode, cn0 := CorrMax(p, n, n, len(fds), T)
	if fds[ixDop] != fd {
		t.Errorf("Doppler bin %d (%.1f Hz), want %.1f Hz", ixDop, fds[ixDop], fd)
	}
	if ixCode != tau {
		t.Errorf("code offset %d, want %d", ixCode, tau)
	}
	if cn0 <= 0 {
		t.Errorf("cn0 = %f, want positive", cn0)
	}

	fdop := FineDop(p, n, fds, ixDop, ixCode)
	if math.Abs(fdop-fd) > 0.25 {
		t.Errorf("fine Doppler %f, want %f within a quarter bin", fdop, fd)
	}

	// a second call accumulates instead of overwriting
	before := p[ixDop*n+ixCode]
	if err := e.SearchCode(context.Background(), codeFFT, T, buff, n, fs, fi, fds, p); err != nil {
		t.Fatal(err)
	}
	if p[ixDop*n+ixCode] <= before {
		t.Error("power grid did not accumulate across calls")
	}
}

func TestSearchCode_Cancelled(t *testing.T) {
	e := New()
	rng := rand.New(rand.NewSource(6))
	buff := randBuffer(64, rng)

	codeFFT, err := e.CodeFFT(randCode(64, rng), 1, 0, 64, 64)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := make([]float32, 9*64)
	if err := e.SearchCode(ctx, codeFFT, 1, buff, 0, 64, 16, DopBins(1, 0, 2), p); err == nil {
		t.Fatal("expected context error")
	}
	for _, v := range p {
		if v != 0 {
			t.Fatal("cancelled search wrote to the power grid")
		}
	}
}
