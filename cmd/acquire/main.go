// Command acquire searches a raw IF capture for a spreading code over a
// Doppler grid and reports the detected code offset, Doppler, and C/N0.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/pavelyazev/PocketSDR/internal/console"
	"github.com/pavelyazev/PocketSDR/internal/cpx"
	"github.com/pavelyazev/PocketSDR/internal/dsp"
	"github.com/pavelyazev/PocketSDR/internal/stream"
)

// config holds the init-time options recognized beyond the command line.
type config struct {
	WisdomFile      string `yaml:"wisdom_file"`
	ConsoleVTEscape bool   `yaml:"console_vt_escape"`
}

func main() {
	var (
		confFile  = pflag.String("conf", "", "YAML configuration file")
		sigFile   = pflag.String("if", "", "raw IF sample file (signed 8-bit)")
		codeFile  = pflag.String("code", "", "spreading code file (signed 8-bit chips, +/-1)")
		fs        = pflag.Float64("fs", 12e6, "sampling rate (Hz)")
		fi        = pflag.Float64("fi", 3e6, "IF carrier frequency (Hz)")
		iq        = pflag.Int("iq", 2, "sampling type: 1 = real, 2 = I/Q")
		toff      = pflag.Float64("toff", 0.0, "time offset into the file (s)")
		period    = pflag.Float64("T", 1e-3, "code period (s)")
		cycles    = pflag.Int("cycles", 10, "code periods to integrate non-coherently")
		maxDop    = pflag.Float64("dop", 5000.0, "Doppler search half-width (Hz)")
		dopCenter = pflag.Float64("dop-center", 0.0, "Doppler search center (Hz)")
		wisdom    = pflag.String("wisdom", "", "transform plan-warm file (overrides config)")
		genWisdom = pflag.Int("gen-wisdom", 0, "plan the given transform size into the wisdom file and exit")
		serveAddr = pflag.String("serve", "", "serve the monitor stream on this address")
		logLevel  = pflag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "acquire",
	})
	if lvl, err := log.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(lvl)
	}

	cfg := config{}
	if *confFile != "" {
		data, err := os.ReadFile(*confFile)
		if err != nil {
			logger.Fatal("read config", "err", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logger.Fatal("parse config", "err", err)
		}
	}
	if *wisdom != "" {
		cfg.WisdomFile = *wisdom
	}
	if cfg.ConsoleVTEscape {
		if err := console.EnableVT(); err != nil {
			logger.Warn("console VT escapes unavailable", "err", err)
		}
	}

	engine := dsp.New(dsp.WithLogger(logger), dsp.WithWisdom(cfg.WisdomFile))

	if *genWisdom > 0 {
		if cfg.WisdomFile == "" {
			logger.Fatal("gen-wisdom needs a wisdom file path")
		}
		if err := engine.GenWisdom(cfg.WisdomFile, *genWisdom); err != nil {
			logger.Fatal("wisdom generation failed", "err", err)
		}
		logger.Info("wisdom written", "file", cfg.WisdomFile, "n", *genWisdom)
		return
	}

	if *sigFile == "" || *codeFile == "" {
		pflag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("interrupted, stopping search")
		cancel()
	}()

	var hub *stream.Hub
	if *serveAddr != "" {
		hub = stream.NewHub(logger)
		go func() {
			if err := stream.NewServer(*serveAddr, hub).Start(); err != nil {
				logger.Error("monitor stream stopped", "err", err)
			}
		}()
	}

	// Read enough IF data for the requested integration plus one spare
	// period; the search below reads only the first `cycles` periods.
	span := *period * float64(*cycles+1)
	buff, err := cpx.ReadIF(*sigFile, *fs, *toff, span, *iq)
	if err != nil {
		logger.Fatal("IF read failed", "err", err)
	}

	code, err := readCode(*codeFile)
	if err != nil {
		logger.Fatal("code read failed", "err", err)
	}

	n := buff.N / (*cycles + 1)
	codeFFT, err := engine.CodeFFT(code, *period, 0.0, *fs, n)
	if err != nil {
		logger.Fatal("code spectrum failed", "err", err)
	}

	fds := dsp.DopBins(*period, *dopCenter, *maxDop)
	p := make([]float32, len(fds)*n)
	logger.Info("searching", "bins", len(fds), "samples", n, "cycles", *cycles)

	for cyc := 0; cyc < *cycles; cyc++ {
		if err := engine.SearchCode(ctx, codeFFT, *period, buff, cyc*n, *fs, *fi, fds, p); err != nil {
			logger.Fatal("search failed", "err", err)
		}
		if hub != nil {
			hub.BroadcastProgress(cyc+1, *cycles)
		}
	}

	ixDop, ixCode, cn0 := dsp.CorrMax(p, n, n, len(fds), *period)
	fdop := dsp.FineDop(p, n, fds, ixDop, ixCode)

	if hub != nil {
		hub.BroadcastResult(stream.ResultPayload{
			CodeOffset: ixCode,
			Doppler:    fdop,
			CN0:        cn0,
			Cycles:     *cycles,
		})
	}
	fmt.Printf("code offset: %7d smp  doppler: %9.1f Hz  C/N0: %5.1f dB-Hz\n",
		ixCode, fdop, cn0)
}

// readCode loads a spreading code stored as one signed byte per chip.
func readCode(path string) ([]int8, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	code := make([]int8, len(data))
	for i, b := range data {
		code[i] = int8(b)
	}
	return code, nil
}
