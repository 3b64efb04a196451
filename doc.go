// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tft is a container for the GC9106 color TFT driver and its tools.
//
// The driver lives in gc9106. ch347spi connects it through a CH347 USB
// bridge, screen2d previews a panel in the terminal and cmd/gc9106 ties them
// together.
package tft
