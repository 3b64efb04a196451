// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GermanBionicSystems/tft/gc9106"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "gc9106.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	c, err := loadConfig(writeConfig(t, "bus: spi\n"))
	assert.NoError(t, err)
	assert.Equal(t, "spi", c.Bus)
	assert.Equal(t, "mini80x160", c.Model)
	assert.True(t, c.UseBGR)
	assert.Equal(t, time.Second, c.UpdateInterval)
	assert.Equal(t, "GPIO25", c.SPI.DCPin)

	o, err := c.opts()
	assert.NoError(t, err)
	assert.Equal(t, 80, o.W)
	assert.Equal(t, 160, o.H)
	assert.Equal(t, 24, o.ColStart)
	assert.Equal(t, gc9106.BGR, o.Order)
	assert.Equal(t, gc9106.RGB565, o.Format)
	assert.Equal(t, gc9106.TabR, o.Script)
}

func TestLoadConfigOverrides(t *testing.T) {
	c, err := loadConfig(writeConfig(t, `
model: tab128x160
init_script: tabr
device_height: 128
row_start: 3
eight_bit_color: true
use_bgr: false
invert_colors: true
update_interval: 250ms
spi:
  port: /dev/spidev0.1
  dc_pin: GPIO24
  cs_pin: GPIO8
`))
	assert.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, c.UpdateInterval)
	assert.Equal(t, SPI{Port: "/dev/spidev0.1", DCPin: "GPIO24", CSPin: "GPIO8", ResetPin: "GPIO27"}, c.SPI)

	o, err := c.opts()
	assert.NoError(t, err)
	assert.Equal(t, 128, o.W)
	assert.Equal(t, 128, o.H)
	assert.Equal(t, 2, o.ColStart)
	assert.Equal(t, 3, o.RowStart)
	assert.Equal(t, gc9106.Indexed8, o.Format)
	assert.Equal(t, gc9106.RGB, o.Order)
	assert.True(t, o.Invert)
	assert.Equal(t, gc9106.TabR, o.Script)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = loadConfig(writeConfig(t, "update_interval: 0s\n"))
	assert.Error(t, err)

	_, err = loadConfig(writeConfig(t, "device_width: [\n"))
	assert.Error(t, err)

	c := defaultConfig()
	c.Model = "st7789"
	_, err = c.opts()
	assert.Error(t, err)

	c = defaultConfig()
	c.InitScript = "tabg"
	_, err = c.opts()
	assert.Error(t, err)
}
