package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/strikesynth/strike/engine"
)

func TestParamDefaults(t *testing.T) {
	params := engine.NewParams()
	assert.Equal(t, float32(1), params.Get(engine.ParamVolume))
	assert.Equal(t, float32(0), params.Get(engine.ParamInstrument))
}

func TestParamClamping(t *testing.T) {
	params := engine.NewParams()
	params.Set(engine.ParamVolume, 1.5)
	assert.Equal(t, float32(1), params.Get(engine.ParamVolume))
	params.Set(engine.ParamVolume, -0.5)
	assert.Equal(t, float32(0), params.Get(engine.ParamVolume))
	params.Set(engine.ParamVolume, 0.25)
	assert.Equal(t, float32(0.25), params.Get(engine.ParamVolume))
}

func TestUnknownAddressesNeverFail(t *testing.T) {
	params := engine.NewParams()
	assert.Equal(t, float32(0), params.Get(999))
	assert.Equal(t, float32(0), params.Get(-1))
	params.Set(999, 1) // dropped, not an error
	assert.Equal(t, float32(0), params.Get(999))
}

func TestParamNames(t *testing.T) {
	assert.Equal(t, "volume", engine.Name(engine.ParamVolume))
	assert.Equal(t, "", engine.Name(999))
}
