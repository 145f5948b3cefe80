// Package rtmidi owns the MIDI transport: a single context object wrapping
// the rtmidi driver, constructed once and torn down deterministically. Parsed
// events are translated to engine commands and handed off through the broker;
// the driver callback never blocks and never calls into the engine.
package rtmidi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/strikesynth/strike/engine"
	"github.com/strikesynth/strike/midi"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"go.uber.org/zap"
)

type (
	Context struct {
		driver             *rtmididrv.Driver
		currentIn          drivers.In
		inputDevices       []Device
		devicesInitialized bool

		parser midi.Parser
		broker *engine.Broker
		log    *zap.Logger
	}

	Device struct {
		context *Context
		in      drivers.In
	}
)

// NewContext opens the rtmidi driver. A machine without a usable driver is
// not an error: the context just has no input devices.
func NewContext(broker *engine.Broker, log *zap.Logger) *Context {
	c := &Context{broker: broker, log: log}
	var err error
	if c.driver, err = rtmididrv.New(); err != nil {
		// use c.driver = nil to indicate no driver available
		c.driver = nil
		log.Warn("no MIDI driver available", zap.Error(err))
	}
	return c
}

// InputDevices iterates over the available MIDI input devices.
func (c *Context) InputDevices(yield func(Device) bool) {
	if c.devicesInitialized {
		c.yieldCachedInputDevices(yield)
	} else {
		c.initInputDevices(yield)
	}
}

func (c *Context) yieldCachedInputDevices(yield func(Device) bool) {
	for _, device := range c.inputDevices {
		if !yield(device) {
			break
		}
	}
}

func (c *Context) initInputDevices(yield func(Device) bool) {
	if c.driver == nil {
		return
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return
	}
	for i := 0; i < len(ins); i++ {
		device := Device{context: c, in: ins[i]}
		c.inputDevices = append(c.inputDevices, device)
		if !yield(device) {
			break
		}
	}
	c.devicesInitialized = true
}

// Open an input device, closing the currently open one if necessary.
func (d Device) Open() error {
	c := d.context
	if c.currentIn == d.in {
		return nil
	}
	if c.driver == nil {
		return errors.New("no driver available")
	}
	if c.HasDeviceOpen() {
		c.currentIn.Close()
	}
	c.currentIn = d.in
	if err := d.in.Open(); err != nil {
		c.currentIn = nil
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	if _, err := gomidi.ListenTo(d.in, c.handleMessage); err != nil {
		d.in.Close()
		c.currentIn = nil
		return fmt.Errorf("listening to MIDI input failed: %w", err)
	}
	c.log.Info("MIDI input open", zap.String("device", d.in.String()))
	return nil
}

func (d Device) String() string {
	return d.in.String()
}

// TryToOpenBy opens the first input whose name starts with namePrefix, or
// just the first input if takeFirst is set.
func (c *Context) TryToOpenBy(namePrefix string, takeFirst bool) error {
	if namePrefix == "" && !takeFirst {
		return nil
	}
	for input := range c.InputDevices {
		if takeFirst || strings.HasPrefix(input.String(), namePrefix) {
			return input.Open()
		}
	}
	if takeFirst {
		return errors.New("could not find any MIDI input")
	}
	return fmt.Errorf("could not find any MIDI input starting with %q", namePrefix)
}

func (c *Context) HasDeviceOpen() bool {
	return c.currentIn != nil && c.currentIn.IsOpen()
}

func (c *Context) Close() {
	if c.driver == nil {
		return
	}
	if c.currentIn != nil && c.currentIn.IsOpen() {
		c.currentIn.Close()
	}
	c.driver.Close()
}

// handleMessage runs on the driver's callback thread. It feeds the raw bytes
// through the stream parser and enqueues the resulting commands; if the queue
// is full the command is dropped, as blocking here could stall the driver.
func (c *Context) handleMessage(msg gomidi.Message, timestampms int32) {
	for event := range c.parser.Feed(msg.Bytes()) {
		cmd, ok := engine.EventCommand(event)
		if !ok {
			continue
		}
		if !engine.TrySend(c.broker.ToEngine, cmd) {
			c.log.Warn("command queue full, dropping MIDI event")
		}
	}
}
