package engine

import (
	"math"
	"sync/atomic"
)

// Parameter addresses. Volume is the only address the mix path reads today;
// the instrument and envelope addresses are declared so presets and control
// surfaces can already store them.
const (
	ParamVolume = iota
	ParamInstrument
	ParamEnvAttack
	ParamEnvRelease

	NumParams
)

type (
	paramDef struct {
		name     string
		min, max float32
		def      float32
	}

	// Params is the address→value table shared between the control side and
	// the render thread. Writes are routed through the command queue, so only
	// the render thread ever calls Set; values are still stored as atomic
	// float bits so that any thread may Get a consistent value at any time.
	Params struct {
		values [NumParams]atomic.Uint32
	}
)

var paramDefs = [NumParams]paramDef{
	ParamVolume:     {name: "volume", min: 0, max: 1, def: 1},
	ParamInstrument: {name: "instrument", min: 0, max: 127, def: 0},
	ParamEnvAttack:  {name: "envattack", min: 0, max: 10, def: 0},
	ParamEnvRelease: {name: "envrelease", min: 0, max: 10, def: 0},
}

func NewParams() *Params {
	p := &Params{}
	for addr := range paramDefs {
		p.values[addr].Store(math.Float32bits(paramDefs[addr].def))
	}
	return p
}

// Get returns the value at addr, or 0 for addresses outside the table.
// Unknown addresses are not an error.
func (p *Params) Get(addr int) float32 {
	if addr < 0 || addr >= NumParams {
		return 0
	}
	return math.Float32frombits(p.values[addr].Load())
}

// Set stores value at addr, clamped to the declared range of the parameter.
// Writes to unknown addresses are dropped.
func (p *Params) Set(addr int, value float32) {
	if addr < 0 || addr >= NumParams {
		return
	}
	def := &paramDefs[addr]
	if value < def.min {
		value = def.min
	}
	if value > def.max {
		value = def.max
	}
	p.values[addr].Store(math.Float32bits(value))
}

// Name returns the declared name of a parameter address, or "" if unknown.
func Name(addr int) string {
	if addr < 0 || addr >= NumParams {
		return ""
	}
	return paramDefs[addr].name
}
