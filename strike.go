package strike

// AudioBuffer is a buffer of stereo audio frames. Mono sources are mixed to
// both channels.
type AudioBuffer [][2]float32

// SampleRate is the only sample rate the engine runs at. Bank assets are
// expected to be decoded at this rate; no resampling is performed.
const SampleRate = 44100
