// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package image332

import (
	"image"
	"image/color"
	"image/draw"
)

// Color is a 3-3-2 packed RGB color.
type Color uint8

// FromRGB quantizes 8 bit components by keeping their most significant bits.
func FromRGB(r, g, b uint8) Color {
	return Color(r&0xE0 | (g>>5)<<2 | b>>6)
}

// RGB expands the packed components back to 8 bits.
//
// Bits are replicated into the low bits so that full scale stays full scale
// (7 -> 0xFF) and FromRGB(c.RGB()) == c for every c.
func (c Color) RGB() (r, g, b uint8) {
	r3 := uint8(c) >> 5
	g3 := (uint8(c) >> 2) & 0x07
	b2 := uint8(c) & 0x03
	r = r3<<5 | r3<<2 | r3>>1
	g = g3<<5 | g3<<2 | g3>>1
	b = b2<<6 | b2<<4 | b2<<2 | b2
	return r, g, b
}

// RGBA implements color.Color.
func (c Color) RGBA() (uint32, uint32, uint32, uint32) {
	r, g, b := c.RGB()
	return uint32(r) * 0x101, uint32(g) * 0x101, uint32(b) * 0x101, 0xFFFF
}

func convert(c color.Color) color.Color {
	if p, ok := c.(Color); ok {
		return p
	}
	r, g, b, _ := c.RGBA()
	return FromRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Model converts any color to Color.
var Model = color.ModelFunc(convert)

// Image is an in-memory image with one Color byte per pixel, rows top to
// bottom.
type Image struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

// NewImage returns a zeroed (black) Image with the given bounds.
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Image{Rect: r}
	}
	return &Image{
		Pix:    make([]byte, w*h),
		Stride: w,
		Rect:   r,
	}
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return i.Rect
}

// Opaque reports whether the image is fully opaque, which it always is.
func (i *Image) Opaque() bool {
	return true
}

// At implements image.Image. Points outside the bounds are black.
func (i *Image) At(x, y int) color.Color {
	return i.Color332At(x, y)
}

// Color332At returns the packed color at (x, y).
func (i *Image) Color332At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return 0
	}
	return Color(i.Pix[i.PixOffset(x, y)])
}

// Set implements draw.Image. Points outside the bounds are ignored.
func (i *Image) Set(x, y int, c color.Color) {
	i.SetColor332(x, y, Model.Convert(c).(Color))
}

// SetColor332 sets the packed color at (x, y) without conversion.
func (i *Image) SetColor332(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return
	}
	i.Pix[i.PixOffset(x, y)] = byte(c)
}

// PixOffset returns the index of the byte of Pix that corresponds to (x, y).
func (i *Image) PixOffset(x, y int) int {
	return (y-i.Rect.Min.Y)*i.Stride + (x - i.Rect.Min.X)
}

var _ draw.Image = &Image{}
