// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9106

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/GermanBionicSystems/tft/gc9106/gc9106test"
)

// newTestDev returns a Dev on a recording bus whose sleeps are recorded
// instead of slept.
func newTestDev(t *testing.T, opts *Opts) (*Dev, *gc9106test.Bus, *[]time.Duration) {
	t.Helper()
	bus := &gc9106test.Bus{Panel: gc9106test.NewPanel()}
	d, err := New(bus, opts)
	if err != nil {
		t.Fatal(err)
	}
	slept := &[]time.Duration{}
	d.sleep = func(d time.Duration) { *slept = append(*slept, d) }
	return d, bus, slept
}

func TestNewErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		bus  Bus
		opts *Opts
	}{
		{"nil bus", nil, &Mini80x160},
		{"nil opts", &gc9106test.Bus{}, nil},
		{"no script", &gc9106test.Bus{}, &Opts{}},
		{"bad format", &gc9106test.Bus{}, &Opts{Script: TabB, Format: 7}},
		{"bad order", &gc9106test.Bus{}, &Opts{Script: TabB, Order: 3}},
		{"negative width", &gc9106test.Bus{}, &Opts{Script: TabB, W: -80}},
		{"too wide", &gc9106test.Bus{}, &Opts{Script: TabB, W: 128}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if d, err := New(tc.bus, tc.opts); err == nil {
				t.Fatalf("New() = %v", d)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	d, _, _ := newTestDev(t, &Opts{Script: TabR})
	if g := d.Geometry(); g != (Geometry{W: 80, H: 160, ColStart: 24}) {
		t.Fatalf("Geometry() = %+v", g)
	}
	if b := d.Bounds(); b != image.Rect(0, 0, 80, 160) {
		t.Fatalf("Bounds() = %v", b)
	}
	if n := d.BufferLen(); n != 80*160*2 {
		t.Fatalf("BufferLen() = %d", n)
	}
	if s := d.State(); s != Uninitialized {
		t.Fatalf("State() = %s", s)
	}
	if s := d.String(); s != "gc9106.Dev{gc9106test.Bus, 80x160, RGB565}" {
		t.Fatal(s)
	}
}

func TestUpdateBeforeInit(t *testing.T) {
	d, bus, _ := newTestDev(t, &Mini80x160)
	if err := d.Update(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Update() = %v", err)
	}
	if err := d.Invert(true); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Invert() = %v", err)
	}
	if err := d.Draw(d.Bounds(), image.Black, image.Point{}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Draw() = %v", err)
	}
	d.SetPixel(0, 0, color.White)
	if len(bus.Ops) != 0 {
		t.Fatalf("bus used before Init: %v", bus.Ops)
	}
}

func TestInitNoResetLine(t *testing.T) {
	opts := Opts{Script: Script{{Op: swReset}, {Op: sleepOut}}}
	d, bus, slept := newTestDev(t, &opts)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(*slept, []time.Duration{100 * time.Millisecond}); diff != "" {
		t.Fatalf("delays (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(bus.Commands(), []byte{swReset, sleepOut, memAccessCtl}); diff != "" {
		t.Fatalf("commands (-got +want):\n%s", diff)
	}
	if s := d.State(); s != Ready {
		t.Fatalf("State() = %s", s)
	}
}

func TestInitResetLine(t *testing.T) {
	rst := &gc9106test.Line{N: "RST"}
	opts := Opts{Script: Script{{Op: swReset, Delayed: true, Delay: 150}}, RST: rst}
	d, _, slept := newTestDev(t, &opts)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(rst.Levels, []gpio.Level{gpio.High, gpio.Low, gpio.High}); diff != "" {
		t.Fatalf("reset levels (-got +want):\n%s", diff)
	}
	want := []time.Duration{time.Millisecond, 10 * time.Millisecond, 100 * time.Millisecond, 150 * time.Millisecond}
	if diff := cmp.Diff(*slept, want); diff != "" {
		t.Fatalf("delays (-got +want):\n%s", diff)
	}
}

func TestInitResetError(t *testing.T) {
	rst := &gc9106test.Line{N: "RST", Err: errors.New("gpio busy")}
	opts := Opts{Script: TabB, RST: rst}
	d, bus, slept := newTestDev(t, &opts)
	if err := d.Init(); err == nil || !strings.Contains(err.Error(), "gpio busy") {
		t.Fatalf("Init() = %v", err)
	}
	if len(bus.Ops) != 0 || len(*slept) != 0 {
		t.Fatalf("kept going after a reset error: %d writes, delays %v", len(bus.Ops), *slept)
	}
	if s := d.State(); s != Uninitialized {
		t.Fatalf("State() = %s", s)
	}
}

func TestInitBusError(t *testing.T) {
	want := errors.New("usb unplugged")
	d, bus, _ := newTestDev(t, &Mini80x160)
	bus.Err = want
	if err := d.Init(); !errors.Is(err, want) {
		t.Fatalf("Init() = %v", err)
	}
	if bus.Selected {
		t.Fatal("chip select left asserted")
	}
	if err := d.Update(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Update() = %v", err)
	}
}

// Indexed8 80x160 module: a white pixel at the origin goes out as 0xFFFF.
func TestIndexed8WhiteEndToEnd(t *testing.T) {
	opts := Mini80x160
	opts.Format = Indexed8
	d, bus, _ := newTestDev(t, &opts)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(d.pix, make([]byte, 80*160)) {
		t.Fatal("buffer not zeroed")
	}
	d.SetPixel(0, 0, color.White)
	if d.pix[0] != 0xFF {
		t.Fatalf("stored %#02x", d.pix[0])
	}
	bus.Reset()
	if err := d.Update(); err != nil {
		t.Fatal(err)
	}
	if bus.Selects != 1 {
		t.Fatalf("Update() used %d transactions", bus.Selects)
	}
	want := []gc9106test.Op{
		{DC: gpio.Low, W: []byte{columnAddrSet}},
		{DC: gpio.High, W: []byte{0, 24, 0, 103}},
		{DC: gpio.Low, W: []byte{rowAddrSet}},
		{DC: gpio.High, W: []byte{0, 0, 0, 159}},
		{DC: gpio.Low, W: []byte{memoryWrite}},
	}
	if diff := cmp.Diff(bus.Ops[:5], want); diff != "" {
		t.Fatalf("header (-got +want):\n%s", diff)
	}
	px := bus.Ops[5]
	if px.DC != gpio.High || len(px.W) != 80*160*2 {
		t.Fatalf("pixel write: dc=%s len=%d", px.DC, len(px.W))
	}
	if px.W[0] != 0xFF || px.W[1] != 0xFF || px.W[2] != 0 || px.W[3] != 0 {
		t.Fatalf("first pixels = % x", px.W[:4])
	}
}

func TestSetPixelClipped(t *testing.T) {
	for _, f := range []PixelFormat{RGB565, Indexed8} {
		t.Run(f.String(), func(t *testing.T) {
			opts := Mini80x160
			opts.Format = f
			d, _, _ := newTestDev(t, &opts)
			if err := d.Init(); err != nil {
				t.Fatal(err)
			}
			before := append([]byte(nil), d.pix...)
			for _, p := range []image.Point{{-1, 0}, {0, -1}, {80, 0}, {0, 160}, {80, 160}, {1 << 20, 3}} {
				d.SetPixel(p.X, p.Y, color.White)
			}
			if !bytes.Equal(before, d.pix) {
				t.Fatal("out of bounds SetPixel changed the buffer")
			}
			d.SetPixel(79, 159, color.White)
			if got := d.At(79, 159); got != d.ColorModel().Convert(color.White) {
				t.Fatalf("At() = %v", got)
			}
		})
	}
}

func TestSetPixelOffsets(t *testing.T) {
	opts := Mini80x160
	d, _, _ := newTestDev(t, &opts)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	d.SetPixel(3, 2, color.RGBA{0xFF, 0, 0, 0xFF})
	off := (3 + 2*80) * 2
	if d.pix[off] != 0xF8 || d.pix[off+1] != 0x00 {
		t.Fatalf("pix[%d:] = % x", off, d.pix[off:off+2])
	}
}

func TestPanelMirror(t *testing.T) {
	opts := Mini80x160
	opts.Invert = true
	d, bus, _ := newTestDev(t, &opts)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	p := bus.Panel
	if p.MADCTL != 0xC8 || !p.Inverted || !p.On || p.Asleep {
		t.Fatalf("panel MADCTL=%#02x inverted=%t on=%t asleep=%t", p.MADCTL, p.Inverted, p.On, p.Asleep)
	}

	img := image.NewRGBA(d.Bounds())
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0xFF, 0xFF}}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(10, 20, 30, 40), &image.Uniform{color.White}, image.Point{}, draw.Src)
	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if p.Window() != d.Geometry().Window() {
		t.Fatalf("window = %v", p.Window())
	}
	got := p.Snapshot(d.Geometry().Window())
	for y := 0; y < 160; y++ {
		for x := 0; x < 80; x++ {
			want := color.RGBA{0, 0, 0xFF, 0xFF}
			if image.Pt(x, y).In(image.Rect(10, 20, 30, 40)) {
				want = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
			}
			if c := got.RGBAAt(x, y); c != want {
				t.Fatalf("(%d, %d) = %v, want %v", x, y, c, want)
			}
		}
	}
}

func TestHaltThenUpdate(t *testing.T) {
	d, bus, _ := newTestDev(t, &Mini80x160)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if bus.Panel.On {
		t.Fatal("display still on after Halt")
	}
	bus.Reset()
	if err := d.Update(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(bus.Commands(), []byte{displayOn, columnAddrSet, rowAddrSet, memoryWrite}); diff != "" {
		t.Fatalf("commands (-got +want):\n%s", diff)
	}
	if !bus.Panel.On {
		t.Fatal("display not turned back on")
	}
	bus.Reset()
	if err := d.Update(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(bus.Commands(), []byte{columnAddrSet, rowAddrSet, memoryWrite}); diff != "" {
		t.Fatalf("commands (-got +want):\n%s", diff)
	}
}

func TestInvert(t *testing.T) {
	d, bus, _ := newTestDev(t, &Mini80x160)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if err := d.Invert(true); err != nil {
		t.Fatal(err)
	}
	if !bus.Panel.Inverted {
		t.Fatal("not inverted")
	}
	if err := d.Invert(false); err != nil {
		t.Fatal(err)
	}
	if bus.Panel.Inverted {
		t.Fatal("still inverted")
	}
}

func TestReinitClearsBuffer(t *testing.T) {
	d, _, _ := newTestDev(t, &Mini80x160)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	d.SetPixel(0, 0, color.White)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(d.pix, make([]byte, d.BufferLen())) {
		t.Fatal("buffer not cleared by Init")
	}
}

func TestDumpConfig(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	opts := Mini80x160
	opts.Logger = &l
	d, _, _ := newTestDev(t, &opts)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{`"device":"gc9106"`, `"width":80`, `"col_start":24`, `"order":"BGR"`, `"buffer_size":25600`, `"state":"Ready"`} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("missing %s in %s", s, buf.String())
		}
	}
}

func TestNewSPI(t *testing.T) {
	if _, err := NewSPI(&spitest.Record{}, nil, nil, &Mini80x160); err == nil {
		t.Fatal("nil dc accepted")
	}
	if _, err := NewSPI(&spitest.Record{}, gpio.INVALID, nil, &Mini80x160); err == nil {
		t.Fatal("invalid dc accepted")
	}

	rec := &spitest.Record{}
	dc := &gpiotest.Pin{N: "DC"}
	opts := Mini80x160
	opts.Script = Script{{Op: swReset}}
	d, err := NewSPI(rec, dc, gpio.INVALID, &opts)
	if err != nil {
		t.Fatal(err)
	}
	d.sleep = func(time.Duration) {}
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if err := d.Update(); err != nil {
		t.Fatal(err)
	}
	var w []byte
	for _, op := range rec.Ops {
		w = append(w, op.W...)
	}
	// swReset, MADCTL + arg, CASET + 4, RASET + 4, RAMWR + pixels.
	if len(w) != 1+2+5+5+1+80*160*2 {
		t.Fatalf("wrote %d bytes", len(w))
	}
	if w[0] != swReset || w[3] != columnAddrSet {
		t.Fatalf("unexpected stream % x", w[:8])
	}
}

func TestPixelFormatSet(t *testing.T) {
	var f PixelFormat
	if err := f.Set("indexed8"); err != nil || f != Indexed8 {
		t.Fatal(f, err)
	}
	if err := f.Set("rgb565"); err != nil || f != RGB565 {
		t.Fatal(f, err)
	}
	if err := f.Set("cmyk"); err == nil {
		t.Fatal("accepted cmyk")
	}
	var o ColorOrder
	if err := o.Set("bgr"); err != nil || o != BGR {
		t.Fatal(o, err)
	}
	if err := o.Set("grb"); err == nil {
		t.Fatal("accepted grb")
	}
}
