// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// scene renders the status screen: color bars, a clock and a frame counter.
type scene struct {
	dc   *gg.Context
	face font.Face
	dst  *image.RGBA
}

func newScene(r image.Rectangle) (*scene, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return &scene{
		dc:   gg.NewContext(r.Dx(), r.Dy()),
		face: truetype.NewFace(f, &truetype.Options{Size: 16}),
		dst:  image.NewRGBA(r),
	}, nil
}

var bars = []color.Color{
	color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
	color.RGBA{0xFF, 0xFF, 0x00, 0xFF},
	color.RGBA{0x00, 0xFF, 0xFF, 0xFF},
	color.RGBA{0x00, 0xFF, 0x00, 0xFF},
	color.RGBA{0xFF, 0x00, 0xFF, 0xFF},
	color.RGBA{0xFF, 0x00, 0x00, 0xFF},
	color.RGBA{0x00, 0x00, 0xFF, 0xFF},
}

func (s *scene) render(frame int, now time.Time) image.Image {
	w, h := float64(s.dc.Width()), float64(s.dc.Height())
	s.dc.SetRGB(0, 0, 0)
	s.dc.Clear()

	// Bars on the top third, shifted by one bar every frame.
	bw := w / float64(len(bars))
	for i := range bars {
		s.dc.SetColor(bars[(i+frame)%len(bars)])
		s.dc.DrawRectangle(float64(i)*bw, 0, bw+1, h/3)
		s.dc.Fill()
	}

	s.dc.SetRGB(1, 1, 1)
	s.dc.SetFontFace(s.face)
	s.dc.DrawStringAnchored(now.Format("15:04"), w/2, h/2, 0.5, 0.5)
	s.dc.DrawStringAnchored(now.Format(":05"), w/2, h/2+20, 0.5, 0.5)
	s.dc.SetLineWidth(1)
	s.dc.DrawRoundedRectangle(2, h/3+4, w-4, h*2/3-24, 6)
	s.dc.Stroke()

	draw.Draw(s.dst, s.dst.Rect, s.dc.Image(), image.Point{}, draw.Src)
	d := font.Drawer{
		Dst:  s.dst,
		Src:  image.NewUniform(color.RGBA{0x80, 0xFF, 0x80, 0xFF}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(2, s.dst.Rect.Dy()-4),
	}
	d.DrawString(fmt.Sprintf("#%d", frame))
	return s.dst
}
