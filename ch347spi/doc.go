// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ch347spi drives a GC9106 panel through a CH347 USB to SPI bridge.
//
// The bridge is found over hidraw (USB ID 1a86:55dc, interface 1). On Linux,
// give the user access to the matching /dev/hidraw* node first.
//
// Wiring
//
//	CH347   Panel
//	SCK     SCL
//	MOSI    SDA
//	SCS0    CS
//	MISO    DC  (used as GPIO1)
//	SCS1    RES (used as GPIO5)
package ch347spi
