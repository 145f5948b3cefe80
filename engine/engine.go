// Package engine implements the real-time core of the instrument: a
// fixed-capacity pool of sample-playback voices, the parameter store, and the
// render dispatcher that applies queued commands and mixes all sounding
// voices into an output buffer once per render cycle.
//
// All voice state is owned by the render thread. The MIDI and control threads
// never touch it directly; they enqueue Commands through the Broker and the
// engine drains the queue, in arrival order, at the top of each Process call.
package engine

import (
	"github.com/strikesynth/strike"
	"github.com/viterin/vek/vek32"
	"go.uber.org/zap"
)

// MaxVoices is the hard cap of the voice pool: one voice per MIDI note
// number. A lower polyphony is a configuration choice, not a correctness
// requirement.
const MaxVoices = 128

// blockFrames is the size of the pre-allocated mixing scratch. Longer output
// buffers are processed in chunks of this many frames.
const blockFrames = 2048

type (
	// Engine owns the set of currently sounding voices and renders them. A
	// single goroutine, the render thread, must call Process; everything else
	// goes through the Broker.
	Engine struct {
		bank   *strike.SampleBank
		params *Params
		broker *Broker
		log    *zap.Logger

		instrument int
		voices     []voice

		scratchL []float32
		scratchR []float32
		tmp      []float32
		tap      bool
	}

	// voice is one sounding note: a playhead and a gain bound to a shared,
	// immutable sample buffer. A voice with a nil sample is free.
	voice struct {
		note     uint8
		sample   *strike.Sample
		playhead int
		gain     float32
	}

	// Options configures an Engine. The zero value is a good default.
	Options struct {
		// Polyphony is the voice pool size; 0 or anything outside [1,MaxVoices]
		// means MaxVoices.
		Polyphony int
		// Tap makes the engine send a copy of every rendered buffer to
		// broker.ToTap, e.g. for recording the session.
		Tap bool
	}
)

func NewEngine(bank *strike.SampleBank, params *Params, broker *Broker, log *zap.Logger, opts Options) *Engine {
	polyphony := opts.Polyphony
	if polyphony < 1 || polyphony > MaxVoices {
		polyphony = MaxVoices
	}
	return &Engine{
		bank:     bank,
		params:   params,
		broker:   broker,
		log:      log,
		voices:   make([]voice, polyphony),
		scratchL: make([]float32, blockFrames),
		scratchR: make([]float32, blockFrames),
		tmp:      make([]float32, blockFrames),
		tap:      opts.Tap,
	}
}

// Process is the render dispatcher, invoked once per render cycle with the
// cycle's output buffer. It first drains all commands accumulated since the
// previous cycle, so the whole mixing pass sees a consistent voice set, then
// mixes all active voices into the buffer. The buffer is completely
// overwritten; the caller does not need to zero it. Process never blocks and
// does not allocate on the render path.
func (e *Engine) Process(buffer strike.AudioBuffer) {
	e.drainCommands()
	for chunk := buffer; len(chunk) > 0; {
		n := min(len(chunk), blockFrames)
		e.mix(chunk[:n])
		chunk = chunk[n:]
	}
	if e.tap {
		bufPtr := e.broker.GetAudioBuffer() // borrow a buffer from the broker
		*bufPtr = append(*bufPtr, buffer...)
		if !TrySend(e.broker.ToTap, bufPtr) {
			e.broker.PutAudioBuffer(bufPtr)
		}
	}
}

// drainCommands applies every pending command, in the order they were
// enqueued. This is the only place cross-thread requests reach voice state.
func (e *Engine) drainCommands() {
	for {
		select {
		case cmd := <-e.broker.ToEngine:
			e.apply(cmd)
		default:
			return
		}
	}
}

func (e *Engine) apply(cmd Command) {
	switch cmd.Op {
	case OpNoteOn:
		e.noteOn(cmd.Note, cmd.Velocity)
	case OpNoteOff:
		e.noteOff(cmd.Note)
	case OpSetInstrument:
		e.setInstrument(cmd.Instrument)
	case OpSetParam:
		if cmd.Addr == ParamInstrument {
			e.setInstrument(int(cmd.Value))
			return
		}
		e.params.Set(cmd.Addr, cmd.Value)
	}
}

// noteOn starts a voice for note, binding it to the current instrument's
// sample. If a voice for the note already exists it is reset in place, so
// there is never more than one voice per note. The request is dropped, with a
// log entry but no error, when the bank has no sample for the instrument or
// the pool is exhausted.
func (e *Engine) noteOn(note, velocity uint8) {
	sample := e.bank.Sample(e.instrument)
	if sample == nil {
		e.log.Warn("no sample for instrument, dropping note on",
			zap.Int("instrument", e.instrument),
			zap.Uint8("note", note))
		return
	}
	gain := float32(velocity) / 127
	var free *voice
	for i := range e.voices {
		if e.voices[i].sample == nil {
			if free == nil {
				free = &e.voices[i]
			}
			continue
		}
		if e.voices[i].note == note {
			e.voices[i] = voice{note: note, sample: sample, gain: gain}
			return
		}
	}
	if free == nil {
		e.log.Warn("voice pool exhausted, dropping note on", zap.Uint8("note", note))
		return
	}
	*free = voice{note: note, sample: sample, gain: gain}
}

// noteOff stops the voice for note immediately. It is a no-op if the note is
// not sounding.
func (e *Engine) noteOff(note uint8) {
	for i := range e.voices {
		if e.voices[i].sample != nil && e.voices[i].note == note {
			e.voices[i] = voice{}
			return
		}
	}
}

// setInstrument selects the sample that subsequent note ons bind to. Voices
// already sounding keep playing their old sample.
func (e *Engine) setInstrument(instrument int) {
	e.instrument = instrument
	e.params.Set(ParamInstrument, float32(instrument))
}

// mix renders one chunk of at most blockFrames frames. Each active voice is
// accumulated sample by sample into the scratch, scaled by its gain, so the
// output of overlapping voices is the elementwise sum of their individual
// renders. Voices whose playhead reaches the end of their sample are retired
// on this cycle.
func (e *Engine) mix(out strike.AudioBuffer) {
	n := len(out)
	left := vek32.Zeros_Into(e.scratchL, n)
	right := vek32.Zeros_Into(e.scratchR, n)
	for i := range e.voices {
		v := &e.voices[i]
		if v.sample == nil {
			continue
		}
		m := min(n, v.sample.Frames()-v.playhead)
		if m > 0 {
			scaled := vek32.MulNumber_Into(e.tmp[:m], v.sample.Left[v.playhead:v.playhead+m], v.gain)
			vek32.Add_Inplace(left[:m], scaled)
			if v.sample.Stereo() {
				scaled = vek32.MulNumber_Into(e.tmp[:m], v.sample.Right[v.playhead:v.playhead+m], v.gain)
			}
			vek32.Add_Inplace(right[:m], scaled)
			v.playhead += m
		}
		if v.playhead >= v.sample.Frames() {
			*v = voice{}
		}
	}
	volume := e.params.Get(ParamVolume)
	vek32.MulNumber_Inplace(left, volume)
	vek32.MulNumber_Inplace(right, volume)
	for i := 0; i < n; i++ {
		out[i][0] = left[i]
		out[i][1] = right[i]
	}
}

// ActiveVoices counts the voices currently sounding. Voice state is owned by
// the render thread, so this must only be called from it, e.g. between
// Process calls.
func (e *Engine) ActiveVoices() int {
	count := 0
	for i := range e.voices {
		if e.voices[i].sample != nil {
			count++
		}
	}
	return count
}
