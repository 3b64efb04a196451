// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9106

// Bundled vendor init scripts. They differ in power, gamma and addressing
// window settings; pick the one matching the module.
var (
	// TabB is the generic 128x160 initialization, modeled after the 7735B
	// sequence: software reset, 16 bit color, power and gamma tables, full
	// window, display on.
	TabB = mustParseScript(tabB)
	// TabR is the initialization of the 0.96" 80x160 GC9106 modules. It
	// unlocks the vendor registers, programs the GC9106 gamma tables and
	// opens the 80x160 window at column 24.
	TabR = mustParseScript(tabR)
)

var tabB = []byte{
	18,
	swReset, delayFlag, 50,
	sleepOut, delayFlag, longDelay,
	pixelFormatSet, 1 | delayFlag, 0x05, 10, // 16 bit color
	frameRateCtl1, 3 | delayFlag, 0x00, 0x06, 0x03, 10,
	memAccessCtl, 1, 0x08,
	displaySet5, 2, 0x15, 0x02,
	invertCtl, 1, 0x00,
	powerCtl1, 2 | delayFlag, 0x02, 0x70, 10,
	powerCtl2, 1, 0x05,
	powerCtl3, 2, 0x01, 0x02,
	vcomCtl1, 2 | delayFlag, 0x3C, 0x38, 10,
	powerCtl6, 2, 0x11, 0x15,
	gammaPos, 16,
	0x09, 0x16, 0x09, 0x20, 0x21, 0x1B, 0x13, 0x19,
	0x17, 0x15, 0x1E, 0x2B, 0x04, 0x05, 0x02, 0x0E,
	gammaNeg, 16 | delayFlag,
	0x0B, 0x14, 0x08, 0x1E, 0x22, 0x1D, 0x18, 0x1E,
	0x1B, 0x1A, 0x24, 0x2B, 0x06, 0x06, 0x02, 0x0F,
	10,
	columnAddrSet, 4, 0x00, 0x02, 0x00, 0x81,
	rowAddrSet, 4, 0x00, 0x02, 0x00, 0x81,
	normalOn, delayFlag, 10,
	displayOn, delayFlag, longDelay,
}

var tabR = []byte{
	24,
	interRegEnable1, 0,
	interRegEnable1, 0,
	interRegEnable1, 0,
	interRegEnable2, 0,
	frameRateCtl3, 1, 0x03,
	memAccessCtl, 1, 0xD8,
	pixelFormatSet, 1, 0x05,
	displaySet5, 1, 0x11,
	0xAC, 1, 0x0B, // Undocumented, from the vendor sample.
	invertCtl, 1, 0x21,
	frameRateCtl1, 1, 0xC0,
	vregCtl1, 2, 0x50, 0x43,
	vregCtl2, 2, 0x56, 0x43,
	gamma1, 14,
	0x1F, 0x41, 0x1B, 0x55, 0x36, 0x3D, 0x3E,
	0x00, 0x16, 0x08, 0x09, 0x15, 0x14, 0x0F,
	gamma2, 14,
	0x1F, 0x41, 0x1B, 0x55, 0x36, 0x3D, 0x3E,
	0x00, 0x16, 0x08, 0x09, 0x15, 0x14, 0x0F,
	interRegEnable1, 0,
	0xFF, 0, // Undocumented, from the vendor sample.
	tearingOn, 1, 0x00,
	tearScanline, 1, 0x00,
	sleepOut, 0,
	displayOn, 0,
	columnAddrSet, 4, 0x00, 0x18, 0x00, 0x67, // 24..103
	rowAddrSet, 4, 0x00, 0x00, 0x00, 0x9F, // 0..159
	memoryWrite, 0,
}
