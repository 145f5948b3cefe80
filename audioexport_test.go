package strike_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strikesynth/strike"
)

func TestRawFloat32(t *testing.T) {
	buffer := strike.AudioBuffer{{1, -1}, {0.5, 0}}
	raw, err := buffer.Raw(false)
	require.NoError(t, err)
	require.Len(t, raw, 16)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(raw[0:])))
	assert.Equal(t, float32(-1), math.Float32frombits(binary.LittleEndian.Uint32(raw[4:])))
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(raw[8:])))
}

func TestRawPCM16Clamps(t *testing.T) {
	buffer := strike.AudioBuffer{{2, -2}}
	raw, err := buffer.Raw(true)
	require.NoError(t, err)
	require.Len(t, raw, 4)
	assert.Equal(t, int16(math.MaxInt16), int16(binary.LittleEndian.Uint16(raw[0:])))
	assert.Equal(t, int16(math.MinInt16), int16(binary.LittleEndian.Uint16(raw[2:])))
}

func TestWavHeader(t *testing.T) {
	buffer := make(strike.AudioBuffer, 10)
	contents, err := buffer.Wav(true)
	require.NoError(t, err)
	require.Len(t, contents, 44+10*2*2)
	assert.Equal(t, "RIFF", string(contents[0:4]))
	assert.Equal(t, "WAVE", string(contents[8:12]))
	assert.Equal(t, "data", string(contents[36:40]))
	assert.Equal(t, uint32(10*2*2), binary.LittleEndian.Uint32(contents[40:44]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(contents[22:24]), "stereo")
	assert.Equal(t, uint32(strike.SampleRate), binary.LittleEndian.Uint32(contents[24:28]))
}

func TestWavHeaderFloat32(t *testing.T) {
	buffer := make(strike.AudioBuffer, 10)
	contents, err := buffer.Wav(false)
	require.NoError(t, err)
	// extended fmt chunk (18 bytes incl. the empty extension), fact chunk,
	// then data
	require.Len(t, contents, 58+10*2*4)
	assert.Equal(t, uint32(len(contents)-8), binary.LittleEndian.Uint32(contents[4:8]), "RIFF chunk size must match the actual length")
	assert.Equal(t, uint32(18), binary.LittleEndian.Uint32(contents[16:20]))
	assert.Equal(t, uint16(3), binary.LittleEndian.Uint16(contents[20:22]), "IEEE float format")
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(contents[36:38]), "empty fmt extension")
	assert.Equal(t, "fact", string(contents[38:42]))
	assert.Equal(t, uint32(10*2), binary.LittleEndian.Uint32(contents[46:50]))
	assert.Equal(t, "data", string(contents[50:54]))
	assert.Equal(t, uint32(10*2*4), binary.LittleEndian.Uint32(contents[54:58]))
}
