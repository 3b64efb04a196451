// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9106

import "time"

// controller is the command level view of the bus.
type controller interface {
	sendCommand(cmd byte)
	sendData(data []byte)
	delay(d time.Duration)
}

// transactor is a controller that can keep chip select asserted across
// several commands.
type transactor interface {
	controller
	begin()
	end()
}

// configureMode sets the scan direction and color order, and turns on color
// inversion when requested.
func configureMode(ctrl controller, order ColorOrder, invert bool) {
	ctrl.sendCommand(memAccessCtl)
	ctrl.sendData([]byte{madctlMX | madctlMY | order.madctl()})
	if invert {
		ctrl.sendCommand(invertOn)
	}
}
