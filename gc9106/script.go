// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gc9106

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
)

// Init script encoding.
//
//	<number of commands>
//	<opcode> <flags|argc> <argc bytes of arguments> [<delay>]
//	...
//
// The high bit of the second byte tells that a delay byte follows the
// arguments.
const (
	delayFlag   = 0x80
	maxArgs     = 0x7F
	maxCommands = 0xFF
	// longDelay as a delay byte means 500ms.
	longDelay = 0xFF
)

var (
	// ErrTruncated is returned by ParseScript when the data ends before the
	// declared number of commands was read.
	ErrTruncated = errors.New("gc9106: init script truncated")
	// ErrTrailing is returned by ParseScript when bytes remain after the
	// declared number of commands.
	ErrTrailing = errors.New("gc9106: trailing bytes after init script")
	// ErrTooLong is returned when a script cannot be encoded.
	ErrTooLong = errors.New("gc9106: init script too long")
)

// Command is one record of an init script.
type Command struct {
	Op   byte
	Args []byte
	// Delayed is set when the controller needs a pause after the command.
	Delayed bool
	// Delay is the raw delay byte. 255 stands for 500ms, any other value is
	// in milliseconds.
	Delay byte
}

// Wait returns how long to pause after sending the command.
func (c Command) Wait() time.Duration {
	if !c.Delayed {
		return 0
	}
	if c.Delay == longDelay {
		return 500 * time.Millisecond
	}
	return time.Duration(c.Delay) * time.Millisecond
}

// Script is an ordered list of controller commands, as found in vendor init
// tables.
//
// Scripts are shared and must not be modified.
type Script []Command

// ParseScript decodes the compact binary layout used by vendor init tables.
//
// Every read is bound checked: a table that declares more commands, arguments
// or delays than it holds is rejected with ErrTruncated.
func ParseScript(b []byte) (Script, error) {
	r := bytes.NewReader(b)
	n, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: missing command count", ErrTruncated)
	}
	s := make(Script, 0, n)
	for i := 0; i < int(n); i++ {
		at := len(b) - r.Len()
		op, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: command %d of %d: missing opcode at offset %d", ErrTruncated, i+1, n, at)
		}
		argc, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: command %d of %d (%#02x): missing argument count", ErrTruncated, i+1, n, op)
		}
		c := Command{Op: op, Delayed: argc&delayFlag != 0}
		if argc &^= delayFlag; argc != 0 {
			c.Args = make([]byte, argc)
			if _, err := io.ReadFull(r, c.Args); err != nil {
				return nil, fmt.Errorf("%w: command %d of %d (%#02x): want %d arguments, %d left", ErrTruncated, i+1, n, op, argc, r.Len())
			}
		}
		if c.Delayed {
			if c.Delay, err = r.ReadByte(); err != nil {
				return nil, fmt.Errorf("%w: command %d of %d (%#02x): missing delay", ErrTruncated, i+1, n, op)
			}
		}
		s = append(s, c)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes after %d commands", ErrTrailing, r.Len(), n)
	}
	return s, nil
}

// Encode returns the script in the layout read by ParseScript.
//
// ParseScript followed by Encode returns the same bytes.
func (s Script) Encode() ([]byte, error) {
	if len(s) > maxCommands {
		return nil, fmt.Errorf("%w: %d commands, at most %d", ErrTooLong, len(s), maxCommands)
	}
	size := 1
	for _, c := range s {
		size += 2 + len(c.Args)
		if c.Delayed {
			size++
		}
	}
	b := make([]byte, 1, size)
	b[0] = byte(len(s))
	for i, c := range s {
		if len(c.Args) > maxArgs {
			return nil, fmt.Errorf("%w: command %d (%#02x) has %d arguments, at most %d", ErrTooLong, i+1, c.Op, len(c.Args), maxArgs)
		}
		argc := byte(len(c.Args))
		if c.Delayed {
			argc |= delayFlag
		}
		b = append(b, c.Op, argc)
		b = append(b, c.Args...)
		if c.Delayed {
			b = append(b, c.Delay)
		}
	}
	return b, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s Script) MarshalBinary() ([]byte, error) {
	return s.Encode()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Script) UnmarshalBinary(b []byte) error {
	v, err := ParseScript(b)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Duration returns the sum of all the pauses in the script.
func (s Script) Duration() time.Duration {
	var d time.Duration
	for _, c := range s {
		d += c.Wait()
	}
	return d
}

func (s Script) String() string {
	return fmt.Sprintf("Script{%d commands, %s}", len(s), s.Duration())
}

// play sends every command of s in order.
//
// Bus errors are latched by the controller and checked by the caller once
// the whole script went out.
func play(ctrl controller, s Script) {
	for _, c := range s {
		ctrl.sendCommand(c.Op)
		ctrl.sendData(c.Args)
		if c.Delayed {
			ctrl.delay(c.Wait())
		}
	}
}

func mustParseScript(b []byte) Script {
	s, err := ParseScript(b)
	if err != nil {
		panic(err)
	}
	return s
}
