package midi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/strikesynth/strike/midi"
)

func collect(p *midi.Parser, data []byte) []midi.Event {
	var events []midi.Event
	for event := range p.Feed(data) {
		events = append(events, event)
	}
	return events
}

func TestParseChannelMessages(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		event midi.Event
	}{
		{"note on", []byte{0x90, 0x40, 0x7F}, midi.Event{Kind: midi.NoteOn, Channel: 0, Data1: 0x40, Data2: 127}},
		{"note on velocity 0 is note off", []byte{0x90, 0x40, 0x00}, midi.Event{Kind: midi.NoteOff, Channel: 0, Data1: 0x40, Data2: 0}},
		{"note off", []byte{0x85, 0x3C, 0x20}, midi.Event{Kind: midi.NoteOff, Channel: 5, Data1: 0x3C, Data2: 0x20}},
		{"control change", []byte{0xB0, 0x07, 0x64}, midi.Event{Kind: midi.ControlChange, Channel: 0, Data1: 7, Data2: 100}},
		{"program change", []byte{0xC1, 0x05}, midi.Event{Kind: midi.ProgramChange, Channel: 1, Data1: 5}},
		{"channel pressure", []byte{0xD2, 0x30}, midi.Event{Kind: midi.ChannelPressure, Channel: 2, Data1: 0x30}},
		{"poly pressure", []byte{0xA3, 0x40, 0x22}, midi.Event{Kind: midi.PolyPressure, Channel: 3, Data1: 0x40, Data2: 0x22}},
		{"pitch bend center", []byte{0xE0, 0x00, 0x40}, midi.Event{Kind: midi.PitchBend, Channel: 0, Data1: 0x00, Data2: 0x40}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var parser midi.Parser
			events := collect(&parser, test.data)
			assert.Equal(t, []midi.Event{test.event}, events)
		})
	}
}

func TestPitchBendValue(t *testing.T) {
	var parser midi.Parser
	events := collect(&parser, []byte{0xE0, 0x00, 0x40})
	assert.Len(t, events, 1)
	assert.Equal(t, midi.PitchBendCenter, events[0].Bend())
	events = collect(&parser, []byte{0xE0, 0x7F, 0x7F})
	assert.Len(t, events, 1)
	assert.Equal(t, 16383, events[0].Bend())
}

func TestTruncatedMessageCompletesAcrossFeeds(t *testing.T) {
	var parser midi.Parser
	assert.Empty(t, collect(&parser, []byte{0x90}))
	assert.Empty(t, collect(&parser, []byte{0x40}))
	events := collect(&parser, []byte{0x64})
	assert.Equal(t, []midi.Event{{Kind: midi.NoteOn, Data1: 0x40, Data2: 0x64}}, events)
}

func TestMalformedHeaderSkippedByteByByte(t *testing.T) {
	var parser midi.Parser
	events := collect(&parser, []byte{0x12, 0x34, 0x90, 0x40, 0x10})
	assert.Equal(t, []midi.Event{{Kind: midi.NoteOn, Data1: 0x40, Data2: 0x10}}, events)
}

func TestStatusByteResynchronizesTruncatedMessage(t *testing.T) {
	// the first note on never gets its data bytes; the parser must sync to
	// the second one instead of misreading it as data
	var parser midi.Parser
	events := collect(&parser, []byte{0x90, 0x40, 0x91, 0x41, 0x7F})
	assert.Equal(t, []midi.Event{{Kind: midi.NoteOn, Channel: 1, Data1: 0x41, Data2: 127}}, events)
}

func TestSysExDelimited(t *testing.T) {
	var parser midi.Parser
	events := collect(&parser, []byte{0xF0, 0x7E, 0x01, 0x02, 0xF7, 0x90, 0x40, 0x7F})
	assert.Equal(t, []midi.Event{
		{Kind: midi.SysEx},
		{Kind: midi.NoteOn, Data1: 0x40, Data2: 127},
	}, events)
}

func TestSysExAbortedByStatusByte(t *testing.T) {
	var parser midi.Parser
	events := collect(&parser, []byte{0xF0, 0x7E, 0x90, 0x40, 0x7F})
	assert.Equal(t, []midi.Event{{Kind: midi.NoteOn, Data1: 0x40, Data2: 127}}, events)
}

func TestRealTimeBytesIgnoredMidMessage(t *testing.T) {
	var parser midi.Parser
	events := collect(&parser, []byte{0x90, 0xF8, 0x40, 0xFE, 0x7F})
	assert.Equal(t, []midi.Event{{Kind: midi.NoteOn, Data1: 0x40, Data2: 127}}, events)
}

func TestPressureAccessor(t *testing.T) {
	var parser midi.Parser
	events := collect(&parser, []byte{0xA0, 0x40, 0x22, 0xD0, 0x30})
	assert.Len(t, events, 2)
	assert.Equal(t, uint8(0x22), events[0].Pressure(), "poly pressure value is the second data byte")
	assert.Equal(t, uint8(0x30), events[1].Pressure(), "channel pressure has no note byte, its value is the first")
}

func TestMultipleMessagesInOrder(t *testing.T) {
	var parser midi.Parser
	events := collect(&parser, []byte{
		0x90, 0x3C, 0x70,
		0xB0, 0x07, 0x00,
		0x80, 0x3C, 0x00,
	})
	assert.Equal(t, []midi.Event{
		{Kind: midi.NoteOn, Data1: 0x3C, Data2: 0x70},
		{Kind: midi.ControlChange, Data1: 7, Data2: 0},
		{Kind: midi.NoteOff, Data1: 0x3C, Data2: 0},
	}, events)
}

func TestFeedIsLazy(t *testing.T) {
	// stopping the iteration early must not lose the rest of the bytes; they
	// are simply not consumed yet
	var parser midi.Parser
	data := []byte{0x90, 0x3C, 0x70, 0x80, 0x3C, 0x00}
	var first midi.Event
	for event := range parser.Feed(data[:3]) {
		first = event
		break
	}
	assert.Equal(t, midi.Event{Kind: midi.NoteOn, Data1: 0x3C, Data2: 0x70}, first)
	events := collect(&parser, data[3:])
	assert.Equal(t, []midi.Event{{Kind: midi.NoteOff, Data1: 0x3C, Data2: 0}}, events)
}
