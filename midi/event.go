// Package midi parses raw MIDI byte streams into structured events. It knows
// nothing about transports or the engine; feeding bytes in and ranging over
// events out is the whole interface.
package midi

import "fmt"

type (
	// Kind tags the variant of an Event.
	Kind uint8

	// Event is one parsed MIDI message. The meaning of Data1/Data2 depends on
	// the Kind; use the accessor methods instead of the raw fields. Events are
	// plain values and carry no ownership.
	Event struct {
		Kind    Kind
		Channel uint8 // 0-15
		Data1   uint8 // note, controller or program number, or bend LSB
		Data2   uint8 // velocity, controller value or pressure, or bend MSB
	}
)

const (
	NoteOff Kind = iota
	NoteOn
	PolyPressure
	ControlChange
	ProgramChange
	ChannelPressure
	PitchBend
	// SysEx marks a complete system exclusive message. The payload is not
	// retained; the event only records that one was seen.
	SysEx
)

// PitchBendCenter is the bend value meaning "no bend".
const PitchBendCenter = 8192

func (e Event) Note() uint8       { return e.Data1 }
func (e Event) Velocity() uint8   { return e.Data2 }
func (e Event) Controller() uint8 { return e.Data1 }
func (e Event) Value() uint8      { return e.Data2 }
func (e Event) Program() uint8    { return e.Data1 }

// Pressure returns the pressure value of a PolyPressure or ChannelPressure
// event. Channel pressure has no note byte, so its value sits in Data1.
func (e Event) Pressure() uint8 {
	if e.Kind == ChannelPressure {
		return e.Data1
	}
	return e.Data2
}

// Bend returns the 14-bit pitch bend value, (MSB<<7)|LSB, in [0,16383].
func (e Event) Bend() int {
	return int(e.Data2)<<7 | int(e.Data1)
}

func (k Kind) String() string {
	switch k {
	case NoteOff:
		return "NoteOff"
	case NoteOn:
		return "NoteOn"
	case PolyPressure:
		return "PolyPressure"
	case ControlChange:
		return "ControlChange"
	case ProgramChange:
		return "ProgramChange"
	case ChannelPressure:
		return "ChannelPressure"
	case PitchBend:
		return "PitchBend"
	case SysEx:
		return "SysEx"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (e Event) String() string {
	switch e.Kind {
	case NoteOn, NoteOff:
		return fmt.Sprintf("%v(note=%d, velocity=%d, channel=%d)", e.Kind, e.Note(), e.Velocity(), e.Channel)
	case ControlChange:
		return fmt.Sprintf("ControlChange(controller=%d, value=%d, channel=%d)", e.Controller(), e.Value(), e.Channel)
	case ProgramChange:
		return fmt.Sprintf("ProgramChange(program=%d, channel=%d)", e.Program(), e.Channel)
	case PitchBend:
		return fmt.Sprintf("PitchBend(value=%d, channel=%d)", e.Bend(), e.Channel)
	case SysEx:
		return "SysEx"
	}
	return fmt.Sprintf("%v(data1=%d, data2=%d, channel=%d)", e.Kind, e.Data1, e.Data2, e.Channel)
}
