// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package image332 implements an 8 bit per pixel color image, packed as 3 bits
// of red, 3 bits of green and 2 bits of blue.
//
// This is the "eight bit color" buffer layout of the GC9106 driver. It halves
// the memory used by the frame buffer at the cost of color precision; the
// driver expands each pixel back to RGB565 on the wire.
//
//	bit   7 6 5 4 3 2 1 0
//	      R R R G G G B B
package image332
