// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package image565 implements a 16 bit per pixel RGB565 image stored in the
// controller's wire order: two bytes per pixel, most significant byte first.
//
// A frame held in this layout can be streamed to the display memory as is.
package image565
