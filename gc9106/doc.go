// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gc9106 controls a small color TFT LCD driven by a GC9106 (or
// ST7735 compatible) controller over 4-wire SPI.
//
// The driver keeps a frame buffer in memory, either in RGB565 (two bytes per
// pixel) or in a compact 3-3-2 "eight bit color" layout (one byte per pixel).
// Update streams the whole buffer to the controller memory, converting 3-3-2
// pixels to RGB565 on the fly.
//
// The controller is brought up by an init script: a compact list of commands,
// arguments and delays supplied by the panel vendor. Two scripts are bundled,
// TabB and TabR; which one matches a panel depends on the module, so Opts
// must name one explicitly. Presets are provided for the common modules.
//
// # Wiring
//
// Connect SDA to SPI_MOSI, SCL to SPI_CLK, CS to SPI_CS (or any GPIO passed as
// cs) and DC to a GPIO. RES is optional; without it the controller relies on
// the software reset in the init script.
package gc9106
