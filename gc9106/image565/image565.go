// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package image565

import (
	"image"
	"image/color"
	"image/draw"
)

// Color is a 5-6-5 packed RGB color.
type Color uint16

// FromRGB quantizes 8 bit components by keeping their most significant bits.
func FromRGB(r, g, b uint8) Color {
	return Color(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// RGB expands the packed components back to 8 bits, replicating the high
// bits into the low ones.
func (c Color) RGB() (r, g, b uint8) {
	r5 := uint8(c >> 11)
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// RGBA implements color.Color.
func (c Color) RGBA() (uint32, uint32, uint32, uint32) {
	r, g, b := c.RGB()
	return uint32(r) * 0x101, uint32(g) * 0x101, uint32(b) * 0x101, 0xFFFF
}

// Bytes returns the big endian wire representation.
func (c Color) Bytes() (hi, lo byte) {
	return byte(c >> 8), byte(c)
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

// Image is an in-memory image of big endian RGB565 pixels.
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
		Pix:    make([]byte, 2*w*h),
		Stride: 2 * w,
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
	return i.Color565At(x, y)
}

// Color565At returns the packed color at (x, y).
func (i *Image) Color565At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return 0
	}
	n := i.PixOffset(x, y)
	return Color(i.Pix[n])<<8 | Color(i.Pix[n+1])
}

// Set implements draw.Image. Points outside the bounds are ignored.
func (i *Image) Set(x, y int, c color.Color) {
	i.SetColor565(x, y, Model.Convert(c).(Color))
}

// SetColor565 sets the packed color at (x, y) without conversion.
func (i *Image) SetColor565(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return
	}
	n := i.PixOffset(x, y)
	i.Pix[n], i.Pix[n+1] = c.Bytes()
}

// PixOffset returns the index of the first byte of Pix that corresponds to
// (x, y).
func (i *Image) PixOffset(x, y int) int {
	return (y-i.Rect.Min.Y)*i.Stride + (x-i.Rect.Min.X)*2
}

var _ draw.Image = &Image{}
