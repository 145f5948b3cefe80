package engine

import (
	"sync"

	"github.com/strikesynth/strike"
)

type (
	// Broker carries messages between the three threads of the core: the MIDI
	// callback thread and the control thread enqueue Commands, and the render
	// thread drains them at the top of each cycle. Rendered audio can flow the
	// other way through ToTap, for non-real-time consumers such as a session
	// recorder. Additionally, the broker has a sync.Pool of
	// *strike.AudioBuffers, so the render thread can pass audio around without
	// allocating new memory every time.
	//
	// For closing the tap goroutine, CloseTap has a capacity of 1, so it can
	// always be signalled without blocking; FinishedTap is closed by the tap
	// goroutine once it has drained and cleaned up.
	Broker struct {
		ToEngine chan Command
		ToTap    chan *strike.AudioBuffer

		CloseTap    chan struct{}
		FinishedTap chan struct{}

		bufferPool sync.Pool
	}

	// CommandOp selects what a Command does.
	CommandOp uint8

	// Command is one request to mutate voice or parameter state. Commands are
	// plain values so that enqueueing them never allocates, and they are
	// applied strictly in enqueue order.
	Command struct {
		Op         CommandOp
		Note       uint8
		Velocity   uint8
		Instrument int
		Addr       int
		Value      float32
	}
)

const (
	OpNoteOn CommandOp = iota
	OpNoteOff
	OpSetInstrument
	OpSetParam
)

func NewBroker() *Broker {
	return &Broker{
		ToEngine:    make(chan Command, 1024),
		ToTap:       make(chan *strike.AudioBuffer, 1024),
		CloseTap:    make(chan struct{}, 1),
		FinishedTap: make(chan struct{}),
		bufferPool:  sync.Pool{New: func() any { return &strike.AudioBuffer{} }},
	}
}

// GetAudioBuffer returns an audio buffer from the buffer pool. The buffer is
// guaranteed to be empty. After using the buffer, it should be returned to the
// pool with PutAudioBuffer.
func (b *Broker) GetAudioBuffer() *strike.AudioBuffer {
	return b.bufferPool.Get().(*strike.AudioBuffer)
}

// PutAudioBuffer returns an audio buffer to the buffer pool. If the buffer is
// not empty, its length is reset (but capacity kept) before returning it to
// the pool.
func (b *Broker) PutAudioBuffer(buf *strike.AudioBuffer) {
	if len(*buf) > 0 {
		*buf = (*buf)[:0]
	}
	b.bufferPool.Put(buf)
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Returns true if the value was sent,
// false otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}
