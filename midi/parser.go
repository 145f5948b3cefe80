package midi

import "iter"

// Parser converts an arbitrarily chunked raw MIDI byte stream into Events. A
// message truncated at a chunk boundary is held and completed from the next
// Feed; the only long-lived state is that partial message. The zero value is
// ready to use.
//
// A Parser is not safe for concurrent use, but a single Feed never blocks and
// never allocates, so it can run directly on a driver callback thread.
type Parser struct {
	buf     [3]byte // pending partial channel message
	n       int
	inSysEx bool
}

// Feed returns the sequence of events completed by the bytes in data. The
// sequence is lazy: events are parsed as the caller ranges over them, and the
// parser state advances accordingly. Ranging over the whole sequence consumes
// all of data.
func (p *Parser) Feed(data []byte) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, b := range data {
			if event, ok := p.consume(b); ok {
				if !yield(event) {
					return
				}
			}
		}
	}
}

// consume advances the parser by one byte, returning a completed event if this
// byte finished one.
func (p *Parser) consume(b byte) (Event, bool) {
	if b >= 0xF8 {
		// system real-time bytes may appear anywhere, even inside a message
		return Event{}, false
	}
	if p.inSysEx {
		if b == 0xF7 {
			p.inSysEx = false
			return Event{Kind: SysEx}, true
		}
		if b >= 0x80 {
			// a non-terminator status byte aborts the exclusive
			p.inSysEx = false
			return p.consume(b)
		}
		return Event{}, false
	}
	if p.n > 0 && b >= 0x80 {
		// the pending message was truncated for good; resynchronize on the
		// new status byte
		p.n = 0
	}
	if p.n == 0 {
		switch {
		case b < 0x80:
			// malformed header byte, skip it and try the next one
			return Event{}, false
		case b == 0xF0:
			p.inSysEx = true
			return Event{}, false
		case b > 0xF0:
			// remaining system common messages are treated as single bytes
			return Event{}, false
		}
		p.buf[0] = b
		p.n = 1
		return Event{}, false
	}
	p.buf[p.n] = b
	p.n++
	if p.n < messageLength(p.buf[0]) {
		return Event{}, false
	}
	p.n = 0
	return p.makeEvent(), true
}

// messageLength gives the total byte count of a channel message from its
// status byte's high nibble.
func messageLength(status byte) int {
	switch status & 0xF0 {
	case 0xC0, 0xD0: // program change, channel pressure
		return 2
	default: // note on/off, poly pressure, control change, pitch bend
		return 3
	}
}

func (p *Parser) makeEvent() Event {
	status := p.buf[0]
	event := Event{
		Channel: status & 0x0F,
		Data1:   p.buf[1] & 0x7F,
	}
	if messageLength(status) == 3 {
		event.Data2 = p.buf[2] & 0x7F
	}
	switch status & 0xF0 {
	case 0x80:
		event.Kind = NoteOff
	case 0x90:
		// note on with velocity 0 means note off, per General MIDI convention
		if event.Data2 == 0 {
			event.Kind = NoteOff
		} else {
			event.Kind = NoteOn
		}
	case 0xA0:
		event.Kind = PolyPressure
	case 0xB0:
		event.Kind = ControlChange
	case 0xC0:
		event.Kind = ProgramChange
	case 0xD0:
		event.Kind = ChannelPressure
	case 0xE0:
		event.Kind = PitchBend
	}
	return event
}
