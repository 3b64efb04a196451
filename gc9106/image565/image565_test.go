// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package image565

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRGB(t *testing.T) {
	for _, tc := range []struct {
		name    string
		r, g, b uint8
		want    Color
	}{
		{"black", 0, 0, 0, 0x0000},
		{"white", 0xFF, 0xFF, 0xFF, 0xFFFF},
		{"red", 0xFF, 0, 0, 0xF800},
		{"green", 0, 0xFF, 0, 0x07E0},
		{"blue", 0, 0, 0xFF, 0x001F},
		{"low bits dropped", 0x07, 0x03, 0x07, 0x0000},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FromRGB(tc.r, tc.g, tc.b))
		})
	}
}

func TestQuantizeIdempotent(t *testing.T) {
	for i := 0; i < 1<<16; i++ {
		c := Color(i)
		if got := FromRGB(c.RGB()); got != c {
			t.Fatalf("FromRGB(%#04x.RGB()) = %#04x", i, uint16(got))
		}
	}
}

func TestBytes(t *testing.T) {
	hi, lo := Color(0xABCD).Bytes()
	assert.Equal(t, byte(0xAB), hi)
	assert.Equal(t, byte(0xCD), lo)
}

func TestImage(t *testing.T) {
	img := NewImage(image.Rect(0, 0, 3, 2))
	assert.Len(t, img.Pix, 12)
	assert.Equal(t, 6, img.Stride)

	img.Set(2, 1, color.RGBA{R: 0xFF, A: 0xFF})
	assert.Equal(t, []byte{0xF8, 0x00}, img.Pix[10:12])
	assert.Equal(t, Color(0xF800), img.Color565At(2, 1))

	img.SetColor565(0, 0, 0x1234)
	assert.Equal(t, []byte{0x12, 0x34}, img.Pix[0:2])
}

func TestImageOutOfBounds(t *testing.T) {
	img := NewImage(image.Rect(0, 0, 3, 2))
	want := append([]byte(nil), img.Pix...)
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {3, 0}, {0, 2}} {
		img.Set(p.X, p.Y, color.White)
		assert.Equal(t, Color(0), img.Color565At(p.X, p.Y))
	}
	assert.Equal(t, want, img.Pix)
}

func TestModel(t *testing.T) {
	assert.Equal(t, Color(0xFFFF), Model.Convert(color.White))
	assert.Equal(t, Color(0x1234), Model.Convert(Color(0x1234)))
}
