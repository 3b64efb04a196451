// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9106

import (
	"image"
	"testing"
)

func TestResolveGeometry(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   Geometry
		want Geometry
	}{
		{"zero", Geometry{}, Geometry{W: 80, H: 160, ColStart: 24}},
		{"size only", Geometry{W: 128, H: 128}, Geometry{W: 128, H: 128, ColStart: 24}},
		{"kept", Geometry{W: 128, H: 160, ColStart: 2, RowStart: 1}, Geometry{W: 128, H: 160, ColStart: 2, RowStart: 1}},
		{"negative kept", Geometry{W: -1, H: 10, ColStart: 2}, Geometry{W: -1, H: 10, ColStart: 2}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveGeometry(tc.in); got != tc.want {
				t.Fatalf("resolveGeometry(%+v) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestGeometryValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		g    Geometry
		ok   bool
	}{
		{"mini", Geometry{W: 80, H: 160, ColStart: 24}, true},
		{"full height", Geometry{W: 108, H: 162, ColStart: 24}, true},
		{"negative width", Geometry{W: -1, H: 160, ColStart: 24}, false},
		{"zero height", Geometry{W: 80, H: 0, ColStart: 24}, false},
		{"negative offset", Geometry{W: 80, H: 160, RowStart: -1}, false},
		{"too wide", Geometry{W: 109, H: 160, ColStart: 24}, false},
		{"too tall", Geometry{W: 80, H: 160, ColStart: 24, RowStart: 3}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.g.validate()
			if (err == nil) != tc.ok {
				t.Fatalf("validate(%+v) = %v", tc.g, err)
			}
		})
	}
}

func TestGeometryRects(t *testing.T) {
	g := Geometry{W: 80, H: 160, ColStart: 24}
	if b := g.Bounds(); b != image.Rect(0, 0, 80, 160) {
		t.Fatal(b)
	}
	if w := g.Window(); w != image.Rect(24, 0, 104, 160) {
		t.Fatal(w)
	}
	x1, x2, y1, y2 := g.addrWindow()
	if x1 != 24 || x2 != 103 || y1 != 0 || y2 != 159 {
		t.Fatal(x1, x2, y1, y2)
	}
}
