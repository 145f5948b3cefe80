// Package oto plays engine output through the ebitengine/oto/v3 backend. The
// oto player pulls audio on its own thread, which therefore becomes the
// render thread of the engine.
package oto

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ebitengine/oto/v3"
	"github.com/strikesynth/strike"
)

// Processor renders audio into the buffer it is given; engine.Engine is the
// processor in practice.
type Processor interface {
	Process(buffer strike.AudioBuffer)
}

const (
	// blockFrames is how many frames are rendered per pull, i.e. one render
	// cycle. At 44.1 kHz this is about 11.6 ms.
	blockFrames = 512
	frameBytes  = 8 // 2 channels x float32
)

type (
	Context struct {
		ctx *oto.Context
	}

	Player struct {
		player *oto.Player
	}

	// reader adapts a Processor to the io.Reader the oto player pulls from.
	// It renders fixed-size blocks into pre-allocated buffers; a block that
	// does not fit the destination is carried over to the next Read.
	reader struct {
		proc    Processor
		buf     strike.AudioBuffer
		bytes   []byte
		pending []byte
	}
)

// NewContext opens the audio device: stereo float32 at the engine sample
// rate.
func NewContext() (*Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   strike.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx}, nil
}

// Play starts pulling audio from the processor. The returned player must be
// closed to stop playback.
func (c *Context) Play(proc Processor) *Player {
	r := &reader{
		proc:  proc,
		buf:   make(strike.AudioBuffer, blockFrames),
		bytes: make([]byte, blockFrames*frameBytes),
	}
	player := c.ctx.NewPlayer(r)
	player.Play()
	return &Player{player: player}
}

func (p *Player) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

// Close suspends the audio device. oto contexts cannot be destroyed, so this
// is the closest thing to a teardown the backend offers.
func (c *Context) Close() error {
	if err := c.ctx.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (r *reader) Read(p []byte) (int, error) {
	if len(r.pending) > 0 {
		n := copy(p, r.pending)
		r.pending = r.pending[n:]
		return n, nil
	}
	frames := len(p) / frameBytes
	if frames > blockFrames {
		frames = blockFrames
	}
	if frames == 0 {
		frames = 1 // destination smaller than one frame; render one and carry it over
	}
	buf := r.buf[:frames]
	r.proc.Process(buf)
	out := r.bytes[:frames*frameBytes]
	for i, frame := range buf {
		binary.LittleEndian.PutUint32(out[i*frameBytes:], math.Float32bits(frame[0]))
		binary.LittleEndian.PutUint32(out[i*frameBytes+4:], math.Float32bits(frame[1]))
	}
	n := copy(p, out)
	if n < len(out) {
		r.pending = out[n:]
	}
	return n, nil
}
