package engine

import (
	"github.com/strikesynth/strike"
	"go.uber.org/zap"
)

// Controller is the control-surface interface to the engine: a thin facade
// that turns UI/preset-layer calls into commands on the hand-off queue. It is
// safe to use from any goroutine except the render thread, which has no
// business going through a queue to itself.
//
// All sends are non-blocking; if the queue is full, the request is dropped
// and logged, never retried, since by the next cycle state has already moved
// on.
type Controller struct {
	broker *Broker
	log    *zap.Logger
}

func NewController(broker *Broker, log *zap.Logger) *Controller {
	return &Controller{broker: broker, log: log}
}

func (c *Controller) NoteOn(note, velocity uint8) {
	c.enqueue(Command{Op: OpNoteOn, Note: note, Velocity: velocity})
}

func (c *Controller) NoteOff(note uint8) {
	c.enqueue(Command{Op: OpNoteOff, Note: note})
}

func (c *Controller) SetInstrument(instrument int) {
	c.enqueue(Command{Op: OpSetInstrument, Instrument: instrument})
}

func (c *Controller) SetParam(addr int, value float32) {
	c.enqueue(Command{Op: OpSetParam, Addr: addr, Value: value})
}

// ApplyPreset enqueues every parameter of the preset. Out-of-range values get
// clamped by the parameter store when the commands are applied.
func (c *Controller) ApplyPreset(preset strike.Preset) {
	for addr, value := range preset.Params {
		c.SetParam(addr, value)
	}
}

func (c *Controller) enqueue(cmd Command) {
	if !TrySend(c.broker.ToEngine, cmd) {
		c.log.Warn("command queue full, dropping command", zap.Uint8("op", uint8(cmd.Op)))
	}
}
