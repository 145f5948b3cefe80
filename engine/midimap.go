package engine

import "github.com/strikesynth/strike/midi"

// controller numbers the engine responds to
const ccVolume = 7

// EventCommand translates a parsed MIDI event into an engine command. The
// second return is false for events the engine does not react to: pitch bend
// is parsed and delivered but intentionally not applied to playback, and
// pressure and system messages are ignored.
func EventCommand(event midi.Event) (Command, bool) {
	switch event.Kind {
	case midi.NoteOn:
		return Command{Op: OpNoteOn, Note: event.Note(), Velocity: event.Velocity()}, true
	case midi.NoteOff:
		return Command{Op: OpNoteOff, Note: event.Note()}, true
	case midi.ProgramChange:
		return Command{Op: OpSetInstrument, Instrument: int(event.Program())}, true
	case midi.ControlChange:
		if event.Controller() == ccVolume {
			return Command{Op: OpSetParam, Addr: ParamVolume, Value: float32(event.Value()) / 127}, true
		}
	}
	return Command{}, false
}
