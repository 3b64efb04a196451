// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/tft/gc9106"
)

// SPI selects the periph SPI port and pins.
type SPI struct {
	Port     string `yaml:"port"`      // e.g. /dev/spidev0.0, empty for the first one
	DCPin    string `yaml:"dc_pin"`    // e.g. GPIO25
	CSPin    string `yaml:"cs_pin"`    // empty when the port drives CS
	ResetPin string `yaml:"reset_pin"` // empty when not wired
}

// Config is the content of the YAML configuration file.
type Config struct {
	Model string `yaml:"model"` // "mini80x160" | "tab128x160"
	// InitScript overrides the script of the model: "tabb" | "tabr".
	InitScript string `yaml:"init_script,omitempty"`

	DeviceWidth   int  `yaml:"device_width"`
	DeviceHeight  int  `yaml:"device_height"`
	ColStart      int  `yaml:"col_start"`
	RowStart      int  `yaml:"row_start"`
	EightBitColor bool `yaml:"eight_bit_color"`
	UseBGR        bool `yaml:"use_bgr"`
	InvertColors  bool `yaml:"invert_colors"`

	Bus            string        `yaml:"bus"` // "spi" | "ch347" | "sim"
	SPI            SPI           `yaml:"spi,omitempty"`
	UpdateInterval time.Duration `yaml:"update_interval"`
	// HTTPAddr, when set, serves a live view of the panel.
	HTTPAddr string `yaml:"http_addr,omitempty"`
}

// defaultConfig returns the values used for fields missing from the file.
func defaultConfig() *Config {
	return &Config{
		Model:          "mini80x160",
		UseBGR:         true,
		Bus:            "sim",
		SPI:            SPI{DCPin: "GPIO25", ResetPin: "GPIO27"},
		UpdateInterval: time.Second,
	}
}

func loadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := defaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c.UpdateInterval <= 0 {
		return nil, fmt.Errorf("%s: update_interval must be positive, got %s", path, c.UpdateInterval)
	}
	return c, nil
}

// opts converts the configuration to driver options. Geometry fields left at
// zero keep the model values.
func (c *Config) opts() (gc9106.Opts, error) {
	var o gc9106.Opts
	switch strings.ToLower(c.Model) {
	case "", "mini80x160":
		o = gc9106.Mini80x160
	case "tab128x160":
		o = gc9106.Tab128x160
	default:
		return o, fmt.Errorf("unknown model %q", c.Model)
	}
	switch strings.ToLower(c.InitScript) {
	case "":
	case "tabb":
		o.Script = gc9106.TabB
	case "tabr":
		o.Script = gc9106.TabR
	default:
		return o, fmt.Errorf("unknown init_script %q", c.InitScript)
	}
	if c.DeviceWidth != 0 {
		o.W = c.DeviceWidth
	}
	if c.DeviceHeight != 0 {
		o.H = c.DeviceHeight
	}
	if c.ColStart != 0 {
		o.ColStart = c.ColStart
	}
	if c.RowStart != 0 {
		o.RowStart = c.RowStart
	}
	if c.EightBitColor {
		o.Format = gc9106.Indexed8
	}
	o.Order = gc9106.RGB
	if c.UseBGR {
		o.Order = gc9106.BGR
	}
	o.Invert = c.InvertColors
	return o, nil
}
