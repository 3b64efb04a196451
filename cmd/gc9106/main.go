// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// gc9106 shows a status screen on a GC9106 panel.
//
// The panel is reached through a periph SPI port, a CH347 USB bridge, or
// simulated and previewed in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/tft/ch347spi"
	"github.com/GermanBionicSystems/tft/gc9106"
	"github.com/GermanBionicSystems/tft/gc9106/gc9106test"
	"github.com/GermanBionicSystems/tft/screen2d"
	"github.com/GermanBionicSystems/tft/webview"
)

func main() {
	if err := mainImpl(); err != nil {
		log.Fatal().Err(err).Msg("gc9106")
	}
}

func mainImpl() error {
	var (
		configPath = flag.String("config", "gc9106.yaml", "path to the YAML configuration")
		bus        = flag.String("bus", "", "override the bus: spi | ch347 | sim")
		model      = flag.String("model", "", "override the model: mini80x160 | tab128x160")
		frames     = flag.Int("frames", 0, "stop after this many frames, 0 runs until interrupted")
		httpAddr   = flag.String("http", "", "serve a live view of the panel on this address, e.g. :8080")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		log.Warn().Str("path", *configPath).Msg("no configuration file, using defaults")
		cfg = defaultConfig()
	}
	if *bus != "" {
		cfg.Bus = *bus
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	opts, err := cfg.opts()
	if err != nil {
		return err
	}
	l := log.Logger
	opts.Logger = &l

	p, err := openPanel(cfg, &opts)
	if err != nil {
		return err
	}
	defer p.close()

	if err := p.dev.Init(); err != nil {
		return err
	}
	if cfg.HTTPAddr != "" {
		if err := p.serve(cfg.HTTPAddr, &l); err != nil {
			return err
		}
	}
	s, err := newScene(p.dev.Bounds())
	if err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	t := time.NewTicker(cfg.UpdateInterval)
	defer t.Stop()

	for frame := 0; *frames == 0 || frame < *frames; frame++ {
		if err := p.dev.Draw(p.dev.Bounds(), s.render(frame, time.Now()), p.dev.Bounds().Min); err != nil {
			return err
		}
		if err := p.refresh(); err != nil {
			return err
		}
		log.Debug().Int("frame", frame).Msg("updated")
		select {
		case <-t.C:
		case v := <-sig:
			log.Info().Stringer("signal", v).Msg("stopping")
			return p.dev.Halt()
		}
	}
	return p.dev.Halt()
}

// panel is an initialized driver and the resources behind it.
type panel struct {
	dev *gc9106.Dev
	// closer releases the bus, if needed.
	closer io.Closer
	// sim and preview are set on the simulated bus.
	sim     *gc9106test.Bus
	preview *screen2d.Dev
	// web is set when the live view is served.
	web *webview.Sink
	srv *http.Server
}

func openPanel(cfg *Config, opts *gc9106.Opts) (*panel, error) {
	switch cfg.Bus {
	case "sim":
		b := &gc9106test.Bus{Panel: gc9106test.NewPanel()}
		d, err := gc9106.New(b, opts)
		if err != nil {
			return nil, err
		}
		g := d.Geometry()
		pv, err := screen2d.New(&screen2d.Opts{W: g.W, H: g.H})
		if err != nil {
			return nil, err
		}
		return &panel{dev: d, sim: b, preview: pv}, nil

	case "spi":
		if _, err := host.Init(); err != nil {
			return nil, err
		}
		port, err := spireg.Open(cfg.SPI.Port)
		if err != nil {
			return nil, err
		}
		dc, err := pin(cfg.SPI.DCPin)
		if err == nil && dc == nil {
			err = errors.New("required")
		}
		if err != nil {
			_ = port.Close()
			return nil, fmt.Errorf("dc_pin: %w", err)
		}
		cs, err := pin(cfg.SPI.CSPin)
		if err != nil {
			_ = port.Close()
			return nil, fmt.Errorf("cs_pin: %w", err)
		}
		rst, err := pin(cfg.SPI.ResetPin)
		if err != nil {
			_ = port.Close()
			return nil, fmt.Errorf("reset_pin: %w", err)
		}
		if rst != nil {
			opts.RST = rst
		}
		var csOut gpio.PinOut
		if cs != nil {
			csOut = cs
		}
		d, err := gc9106.NewSPI(port, dc, csOut, opts)
		if err != nil {
			_ = port.Close()
			return nil, err
		}
		return &panel{dev: d, closer: port}, nil

	case "ch347":
		b, err := ch347spi.Open()
		if err != nil {
			return nil, err
		}
		opts.RST = b.ResetLine()
		d, err := gc9106.New(b, opts)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		return &panel{dev: d, closer: b}, nil

	default:
		return nil, fmt.Errorf("unknown bus %q", cfg.Bus)
	}
}

// serve starts the live view in the background.
func (p *panel) serve(addr string, l *zerolog.Logger) error {
	g := p.dev.Geometry()
	web, err := webview.New(&webview.Opts{W: g.W, H: g.H, Logger: l})
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	p.web = web
	p.srv = &http.Server{Handler: web, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := p.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("live view")
		}
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("serving live view")
	return nil
}

// refresh mirrors the last update: the simulated controller memory in the
// terminal, and what was sent to the panel in the live view.
func (p *panel) refresh() error {
	var img image.Image = p.dev
	if p.sim != nil {
		snap := p.sim.Panel.Snapshot(p.dev.Geometry().Window())
		if err := p.preview.Draw(p.preview.Bounds(), snap, snap.Rect.Min); err != nil {
			return err
		}
		img = snap
	}
	if p.web != nil {
		return p.web.Draw(p.web.Bounds(), img, img.Bounds().Min)
	}
	return nil
}

func (p *panel) close() {
	if p.web != nil {
		_ = p.web.Halt()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_ = p.srv.Shutdown(ctx)
		cancel()
	}
	if p.preview != nil {
		_ = p.preview.Halt()
	}
	if p.closer != nil {
		if err := p.closer.Close(); err != nil {
			log.Warn().Err(err).Msg("closing bus")
		}
	}
}

// pin returns the named GPIO, or nil for an empty name.
func pin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return p, nil
}
