package engine

import "github.com/strikesynth/strike"

// Recorder collects the rendered audio the engine sends to broker.ToTap, off
// the render thread, so a session can be exported afterwards. Run it in its
// own goroutine; signal CloseTap to stop it and wait on FinishedTap before
// reading the result.
type Recorder struct {
	broker *Broker
	buffer strike.AudioBuffer
}

func NewRecorder(broker *Broker) *Recorder {
	return &Recorder{broker: broker}
}

// Run consumes tapped buffers until CloseTap is signalled, then drains
// whatever is still queued and closes FinishedTap.
func (r *Recorder) Run() {
	defer close(r.broker.FinishedTap)
	for {
		select {
		case buf := <-r.broker.ToTap:
			r.buffer = append(r.buffer, *buf...)
			r.broker.PutAudioBuffer(buf)
		case <-r.broker.CloseTap:
			for {
				select {
				case buf := <-r.broker.ToTap:
					r.buffer = append(r.buffer, *buf...)
					r.broker.PutAudioBuffer(buf)
				default:
					return
				}
			}
		}
	}
}

// Buffer returns everything recorded so far. Only safe after FinishedTap has
// been closed.
func (r *Recorder) Buffer() strike.AudioBuffer {
	return r.buffer
}
