// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen2d implements a 2D display.Drawer that outputs to terminal
// (stdout) using ANSI color codes.
//
// Terminal cells are about twice as tall as wide, so every other row is
// shown.
package screen2d

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	W, H    int
	Palette *ansi256.Palette
	// Out defaults to stdout.
	Out io.Writer

	_ struct{}
}

// Dev is a small color panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	tty     bool
	palette ansi256.Palette

	img *image.NRGBA
	// rows is the number of lines printed by the last refresh.
	rows int
	buf  bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	if opts.W <= 0 || opts.H <= 0 {
		return nil, fmt.Errorf("screen2d: invalid size %dx%d", opts.W, opts.H)
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{
		w:       opts.Out,
		palette: *p,
		img:     image.NewNRGBA(image.Rect(0, 0, opts.W, opts.H)),
	}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
		d.tty = isatty.IsTerminal(os.Stdout.Fd())
	} else if f, ok := d.w.(*os.File); ok {
		d.tty = isatty.IsTerminal(f.Fd())
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("Screen2D{%dx%d}", d.img.Rect.Dx(), d.img.Rect.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the prompt is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// Write accepts a stream of raw RGB pixels, row by row, and writes it to the
// console.
func (d *Dev) Write(pixels []byte) (int, error) {
	r := d.img.Rect
	if len(pixels) != 3*r.Dx()*r.Dy() {
		return 0, errors.New("screen2d: invalid RGB stream length")
	}
	for i := 0; i < len(pixels)/3; i++ {
		copy(d.img.Pix[4*i:], pixels[3*i:3*i+3])
		d.img.Pix[4*i+3] = 0xFF
	}
	if err := d.refresh(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Rect
}

// At returns the last drawn color at (x, y).
func (d *Dev) At(x, y int) color.Color {
	return d.img.At(x, y)
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(d.img, r, src, sp, draw.Src)
	return d.refresh()
}

func (d *Dev) refresh() error {
	d.buf.Reset()
	if d.tty && d.rows != 0 {
		// Draw over the previous frame.
		fmt.Fprintf(&d.buf, "\033[%dA", d.rows)
	}
	r := d.img.Rect
	d.rows = 0
	for y := r.Min.Y; y < r.Max.Y; y += 2 {
		_, _ = d.buf.WriteString("\r\033[0m")
		for x := r.Min.X; x < r.Max.X; x++ {
			_, _ = io.WriteString(&d.buf, d.palette.Block(d.img.NRGBAAt(x, y)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
		d.rows++
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
