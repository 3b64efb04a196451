// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9106

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/tft/gc9106/image332"
	"github.com/GermanBionicSystems/tft/gc9106/image565"
)

// Commands
const (
	swReset         byte = 0x01
	sleepOut        byte = 0x11
	normalOn        byte = 0x13
	invertOff       byte = 0x20
	invertOn        byte = 0x21
	displayOff      byte = 0x28
	displayOn       byte = 0x29
	columnAddrSet   byte = 0x2A
	rowAddrSet      byte = 0x2B
	memoryWrite     byte = 0x2C
	tearingOn       byte = 0x35
	memAccessCtl    byte = 0x36
	pixelFormatSet  byte = 0x3A
	tearScanline    byte = 0x44
	frameRateCtl1   byte = 0xB1
	frameRateCtl3   byte = 0xB3
	invertCtl       byte = 0xB4
	displaySet5     byte = 0xB6
	powerCtl1       byte = 0xC0
	powerCtl2       byte = 0xC1
	powerCtl3       byte = 0xC2
	vcomCtl1        byte = 0xC5
	gammaPos        byte = 0xE0
	gammaNeg        byte = 0xE1
	vregCtl1        byte = 0xE6
	vregCtl2        byte = 0xE7
	interRegEnable2 byte = 0xEF
	gamma1          byte = 0xF0
	gamma2          byte = 0xF1
	powerCtl6       byte = 0xFC
	interRegEnable1 byte = 0xFE
)

// Memory access control bits.
const (
	madctlMY  byte = 0x80
	madctlMX  byte = 0x40
	madctlRGB byte = 0x00
	madctlBGR byte = 0x08
)

// ErrNotReady is returned when the display is used before a successful Init.
var ErrNotReady = errors.New("gc9106: display not initialized")

// PixelFormat is the layout of the frame buffer.
type PixelFormat int

// Supported PixelFormat.
const (
	// RGB565 keeps two bytes per pixel, already in wire order.
	RGB565 PixelFormat = iota
	// Indexed8 keeps one 3-3-2 byte per pixel and is expanded on Update.
	Indexed8
)

func (f PixelFormat) String() string {
	switch f {
	case RGB565:
		return "RGB565"
	case Indexed8:
		return "Indexed8"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// Set sets the PixelFormat to a value represented by the string s. Set
// implements the flag.Value interface.
func (f *PixelFormat) Set(s string) error {
	switch s {
	case "rgb565", "RGB565", "16":
		*f = RGB565
	case "indexed8", "Indexed8", "rgb332", "8":
		*f = Indexed8
	default:
		return fmt.Errorf("unknown pixel format %q: expected rgb565 or indexed8", s)
	}
	return nil
}

func (f PixelFormat) bytesPerPixel() int {
	if f == Indexed8 {
		return 1
	}
	return 2
}

// ColorOrder is the order of the color filters on the glass.
type ColorOrder int

// Supported ColorOrder.
const (
	RGB ColorOrder = iota
	BGR
)

func (o ColorOrder) String() string {
	switch o {
	case RGB:
		return "RGB"
	case BGR:
		return "BGR"
	default:
		return fmt.Sprintf("ColorOrder(%d)", int(o))
	}
}

// Set sets the ColorOrder to a value represented by the string s. Set
// implements the flag.Value interface.
func (o *ColorOrder) Set(s string) error {
	switch s {
	case "rgb", "RGB":
		*o = RGB
	case "bgr", "BGR":
		*o = BGR
	default:
		return fmt.Errorf("unknown color order %q: expected rgb or bgr", s)
	}
	return nil
}

func (o ColorOrder) madctl() byte {
	if o == BGR {
		return madctlBGR
	}
	return madctlRGB
}

// Opts defines the options for the device.
type Opts struct {
	// Visible size. Zero means 80x160.
	W int
	H int
	// Position of the glass in controller memory. A zero ColStart means 24.
	ColStart int
	RowStart int

	Format PixelFormat
	Order  ColorOrder
	// Invert turns on color inversion after the init script, for glass that
	// shows a negative image otherwise.
	Invert bool

	// Script is the vendor init script. It is required.
	Script Script

	// RST is the optional hardware reset line.
	RST Line

	// Logger receives setup and configuration messages. Nil discards them.
	Logger *zerolog.Logger
}

// Mini80x160 is the 0.96" 80x160 module, BGR glass.
var Mini80x160 = Opts{
	W:        80,
	H:        160,
	ColStart: 24,
	Order:    BGR,
	Script:   TabR,
}

// Tab128x160 is the 1.8" 128x160 module.
var Tab128x160 = Opts{
	W:        128,
	H:        160,
	ColStart: 2,
	RowStart: 1,
	Order:    RGB,
	Script:   TabB,
}

// State is the lifecycle state of a Dev.
type State int

// Lifecycle states, in the order Init goes through them.
const (
	Uninitialized State = iota
	Resetting
	PlayingInit
	ConfiguringMode
	Ready
	Transmitting
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Resetting:
		return "Resetting"
	case PlayingInit:
		return "PlayingInit"
	case ConfiguringMode:
		return "ConfiguringMode"
	case Ready:
		return "Ready"
	case Transmitting:
		return "Transmitting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// NewSPI returns a Dev that communicates over SPI to a GC9106 controller.
//
// dc is required. Pass nil for cs when the SPI port drives chip select.
//
// The controller accepts up to 15MHz on writes; the driver uses 8MHz, mode 0,
// MSB first.
func NewSPI(p spi.Port, dc, cs gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("gc9106: dc pin is required")
	}
	if cs == gpio.INVALID {
		cs = nil
	}
	c, err := p.Connect(8*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("gc9106: %w", err)
	}
	// Get the maxTxSize from the conn if it implements the conn.Limits
	// interface, otherwise use 4096 bytes.
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize == 0 {
		maxTxSize = 4096
	}
	return New(&spiBus{c: c, dc: dc, cs: cs, maxTxSize: maxTxSize}, opts)
}

// New returns a Dev that talks to the controller through b.
//
// The options are checked and the geometry resolved here; nothing is sent
// until Init.
func New(b Bus, opts *Opts) (*Dev, error) {
	if b == nil {
		return nil, errors.New("gc9106: bus is required")
	}
	if opts == nil {
		return nil, errors.New("gc9106: opts are required")
	}
	if len(opts.Script) == 0 {
		return nil, errors.New("gc9106: no init script selected, use TabB or TabR")
	}
	if opts.Format != RGB565 && opts.Format != Indexed8 {
		return nil, fmt.Errorf("gc9106: invalid pixel format %s", opts.Format)
	}
	if opts.Order != RGB && opts.Order != BGR {
		return nil, fmt.Errorf("gc9106: invalid color order %s", opts.Order)
	}
	g := resolveGeometry(Geometry{W: opts.W, H: opts.H, ColStart: opts.ColStart, RowStart: opts.RowStart})
	if err := g.validate(); err != nil {
		return nil, err
	}
	l := zerolog.Nop()
	if opts.Logger != nil {
		l = *opts.Logger
	}
	return &Dev{
		bus:    b,
		rst:    opts.RST,
		g:      g,
		format: opts.Format,
		order:  opts.Order,
		invert: opts.Invert,
		script: opts.Script,
		log:    l.With().Str("device", "gc9106").Logger(),
		sleep:  time.Sleep,
	}, nil
}

// Dev is an open handle to the display controller.
type Dev struct {
	mu sync.Mutex

	// Communication
	bus Bus
	rst Line

	// Immutable
	g      Geometry
	format PixelFormat
	order  ColorOrder
	script Script
	log    zerolog.Logger
	sleep  func(time.Duration)

	// Mutable
	invert bool
	halted bool
	state  State
	// img is an *image332.Image or an *image565.Image; pix is its Pix.
	img draw.Image
	pix []byte
	// wire holds the RGB565 expansion of an Indexed8 frame.
	wire []byte
}

func (d *Dev) String() string {
	return fmt.Sprintf("gc9106.Dev{%v, %dx%d, %s}", d.bus, d.g.W, d.g.H, d.format)
}

// Init resets the controller, plays the init script, sets the color order
// and inversion, and clears the frame buffer.
//
// It can be called again to recover a display that lost its configuration.
func (d *Dev) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.log.Debug().Msg("setting up")
	eh := d.newErrorHandler()

	// Idle levels: data mode, not selected.
	eh.dcOut(gpio.High)
	eh.release()

	d.state = Resetting
	d.reset(eh)
	eh.delay(100 * time.Millisecond)

	d.state = PlayingInit
	d.log.Debug().Stringer("script", d.script).Msg("playing init script")
	play(eh, d.script)

	d.state = ConfiguringMode
	configureMode(eh, d.order, d.invert)

	if eh.err != nil {
		d.state = Uninitialized
		return fmt.Errorf("gc9106: init: %w", eh.err)
	}

	if d.img == nil {
		r := d.g.Bounds()
		if d.format == Indexed8 {
			img := image332.NewImage(r)
			d.img, d.pix = img, img.Pix
			d.wire = make([]byte, 2*len(img.Pix))
		} else {
			img := image565.NewImage(r)
			d.img, d.pix = img, img.Pix
		}
	} else {
		clear(d.pix)
	}
	d.halted = false
	d.state = Ready
	d.dumpConfigLocked()
	return nil
}

// Update sends the frame buffer to the display.
func (d *Dev) Update() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updateLocked()
}

func (d *Dev) updateLocked() error {
	if d.state != Ready {
		return fmt.Errorf("%w (state %s)", ErrNotReady, d.state)
	}
	d.state = Transmitting
	defer func() { d.state = Ready }()

	eh := d.newErrorHandler()
	if d.halted {
		// Transparently enable the display.
		eh.sendCommand(displayOn)
	}
	transmit(eh, d.pix, d.g, d.format, d.wire)
	if eh.err != nil {
		return fmt.Errorf("gc9106: update: %w", eh.err)
	}
	d.halted = false
	return nil
}

// SetPixel sets the pixel at (x, y) in the frame buffer. It is shown on the
// next Update.
//
// Coordinates outside the display are ignored.
func (d *Dev) SetPixel(x, y int, c color.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.img == nil {
		return
	}
	d.img.Set(x, y, c)
}

// Set implements draw.Image. It is the same as SetPixel.
func (d *Dev) Set(x, y int, c color.Color) {
	d.SetPixel(x, y, c)
}

// At implements image.Image. It returns the frame buffer content, black
// before Init.
func (d *Dev) At(x, y int) color.Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.img == nil {
		return color.Black
	}
	return d.img.At(x, y)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	if d.format == Indexed8 {
		return image332.Model
	}
	return image565.Model
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.g.Bounds()
}

// Draw implements display.Drawer.
//
// It renders src into the frame buffer and updates the display synchronously.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.img == nil {
		return fmt.Errorf("%w (state %s)", ErrNotReady, d.state)
	}
	draw.Draw(d.img, r, src, sp, draw.Src)
	return d.updateLocked()
}

// Halt turns off the display. The frame buffer is kept.
//
// The next Update turns the display back on.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Ready {
		return nil
	}
	eh := d.newErrorHandler()
	eh.sendCommand(displayOff)
	if eh.err != nil {
		return fmt.Errorf("gc9106: halt: %w", eh.err)
	}
	d.halted = true
	return nil
}

// Invert turns color inversion on or off.
func (d *Dev) Invert(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Ready {
		return fmt.Errorf("%w (state %s)", ErrNotReady, d.state)
	}
	cmd := invertOff
	if on {
		cmd = invertOn
	}
	eh := d.newErrorHandler()
	eh.sendCommand(cmd)
	if eh.err != nil {
		return fmt.Errorf("gc9106: invert: %w", eh.err)
	}
	d.invert = on
	return nil
}

// Geometry returns the resolved geometry.
func (d *Dev) Geometry() Geometry {
	return d.g
}

// Format returns the frame buffer pixel format.
func (d *Dev) Format() PixelFormat {
	return d.format
}

// BufferLen returns the size of the frame buffer in bytes.
func (d *Dev) BufferLen() int {
	return d.g.W * d.g.H * d.format.bytesPerPixel()
}

// State returns the lifecycle state.
func (d *Dev) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// DumpConfig logs the configuration at info level.
func (d *Dev) DumpConfig() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dumpConfigLocked()
}

func (d *Dev) dumpConfigLocked() {
	d.log.Info().
		Str("bus", fmt.Sprint(d.bus)).
		Bool("reset_pin", d.rst != nil).
		Int("width", d.g.W).
		Int("height", d.g.H).
		Int("col_start", d.g.ColStart).
		Int("row_start", d.g.RowStart).
		Str("format", d.format.String()).
		Str("order", d.order.String()).
		Bool("invert", d.invert).
		Int("buffer_size", d.BufferLen()).
		Int("script_commands", len(d.script)).
		Str("state", d.state.String()).
		Msg("GC9106")
}

func (d *Dev) newErrorHandler() *errorHandler {
	return &errorHandler{b: d.bus, sleep: d.sleep}
}

// reset pulses the reset line, if there is one.
func (d *Dev) reset(eh *errorHandler) {
	if d.rst == nil {
		return
	}
	eh.rstOut(d.rst, gpio.High)
	eh.delay(time.Millisecond)
	eh.rstOut(d.rst, gpio.Low)
	eh.delay(10 * time.Millisecond)
	eh.rstOut(d.rst, gpio.High)
}

var _ display.Drawer = &Dev{}
var _ draw.Image = &Dev{}
