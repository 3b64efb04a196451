// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9106

import (
	"fmt"
	"image"
)

// Size of the controller memory. The glass of a module is a window into it.
const (
	PhysicalWidth  = 132
	PhysicalHeight = 162
)

// Fallbacks used when Opts leaves a field at zero. They match the 80x160
// modules.
const (
	defaultWidth    = 80
	defaultHeight   = 160
	defaultColStart = 24
	defaultRowStart = 0
)

// Geometry is the visible area and its position in controller memory.
type Geometry struct {
	W, H               int
	ColStart, RowStart int
}

// resolveGeometry replaces zero fields with the defaults.
//
// A zero ColStart always becomes 24; modules whose glass starts at column 0
// are not supported by the fallback.
func resolveGeometry(g Geometry) Geometry {
	if g.H == 0 {
		g.H = defaultHeight
	}
	if g.W == 0 {
		g.W = defaultWidth
	}
	if g.ColStart == 0 {
		g.ColStart = defaultColStart
	}
	if g.RowStart == 0 {
		g.RowStart = defaultRowStart
	}
	return g
}

// validate checks a resolved geometry against the controller memory.
func (g Geometry) validate() error {
	if g.W <= 0 || g.H <= 0 {
		return fmt.Errorf("gc9106: invalid size %dx%d", g.W, g.H)
	}
	if g.ColStart < 0 || g.RowStart < 0 {
		return fmt.Errorf("gc9106: invalid offset (%d, %d)", g.ColStart, g.RowStart)
	}
	if g.ColStart+g.W > PhysicalWidth {
		return fmt.Errorf("gc9106: columns %d..%d exceed the controller width %d", g.ColStart, g.ColStart+g.W-1, PhysicalWidth)
	}
	if g.RowStart+g.H > PhysicalHeight {
		return fmt.Errorf("gc9106: rows %d..%d exceed the controller height %d", g.RowStart, g.RowStart+g.H-1, PhysicalHeight)
	}
	return nil
}

// Bounds returns the visible area in pixel coordinates. Min is {0, 0}.
func (g Geometry) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.W, g.H)
}

// Window returns the area of controller memory covered by the glass.
func (g Geometry) Window() image.Rectangle {
	return image.Rect(g.ColStart, g.RowStart, g.ColStart+g.W, g.RowStart+g.H)
}

// addrWindow returns the inclusive column and row ranges sent with CASET and
// RASET.
func (g Geometry) addrWindow() (x1, x2, y1, y2 uint16) {
	x1 = uint16(g.ColStart)
	x2 = x1 + uint16(g.W) - 1
	y1 = uint16(g.RowStart)
	y2 = y1 + uint16(g.H) - 1
	return x1, x2, y1, y2
}
