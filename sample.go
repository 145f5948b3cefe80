package strike

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/youpy/go-wav"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type (
	// Sample is one fully decoded PCM asset. The data is planar float32; Right
	// is nil for mono samples. Samples are immutable after decoding, which is
	// what allows the render thread to read them without any locking.
	Sample struct {
		Name       string
		SampleRate int
		Left       []float32
		Right      []float32
	}

	// SampleBank maps an instrument number to its Sample. A bank is built once
	// at startup and never mutated afterwards.
	SampleBank struct {
		samples map[int]*Sample
	}

	// BankEntry is one row of a bank manifest file.
	BankEntry struct {
		Instrument int    `yaml:"instrument"`
		Name       string `yaml:"name"`
		File       string `yaml:"file"`
	}

	bankManifest struct {
		Samples []BankEntry `yaml:"samples"`
	}
)

// Frames returns the length of the sample in frames.
func (s *Sample) Frames() int {
	return len(s.Left)
}

func (s *Sample) Stereo() bool {
	return s.Right != nil
}

// NewSampleBank builds a bank from already decoded samples. The map is copied
// so the caller cannot mutate the bank afterwards.
func NewSampleBank(samples map[int]*Sample) *SampleBank {
	m := make(map[int]*Sample, len(samples))
	for k, v := range samples {
		m[k] = v
	}
	return &SampleBank{samples: m}
}

// Sample returns the sample for the given instrument, or nil if the bank has
// none. A nil return is not an error; the instrument just produces silence.
func (b *SampleBank) Sample(instrument int) *Sample {
	if b == nil {
		return nil
	}
	return b.samples[instrument]
}

func (b *SampleBank) Len() int {
	return len(b.samples)
}

// Instruments iterates over the instrument numbers and samples of the bank, in
// no particular order.
func (b *SampleBank) Instruments(yield func(instrument int, sample *Sample) bool) {
	for k, v := range b.samples {
		if !yield(k, v) {
			return
		}
	}
}

// LoadSampleBank reads a YAML bank manifest and decodes every WAV asset it
// lists, relative to the manifest's directory. An asset that is missing or
// corrupt does not fail the whole bank: the entry is skipped and the problem
// is reported to the log sink, so the instrument stays silent.
func LoadSampleBank(manifestPath string, log *zap.Logger) (*SampleBank, error) {
	contents, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("could not read bank manifest: %w", err)
	}
	var manifest bankManifest
	if err := yaml.Unmarshal(contents, &manifest); err != nil {
		return nil, fmt.Errorf("could not parse bank manifest %v: %w", manifestPath, err)
	}
	dir := filepath.Dir(manifestPath)
	samples := make(map[int]*Sample, len(manifest.Samples))
	for _, entry := range manifest.Samples {
		sample, err := LoadSample(filepath.Join(dir, entry.File), entry.Name)
		if err != nil {
			log.Warn("skipping bank entry",
				zap.Int("instrument", entry.Instrument),
				zap.String("file", entry.File),
				zap.Error(err))
			continue
		}
		if sample.SampleRate != SampleRate {
			// no resampling; play it at the engine rate and let the user hear it
			log.Warn("sample rate mismatch",
				zap.String("file", entry.File),
				zap.Int("rate", sample.SampleRate))
		}
		samples[entry.Instrument] = sample
	}
	return NewSampleBank(samples), nil
}

// LoadSample decodes a single WAV file fully into memory.
func LoadSample(path, name string) (*Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open sample: %w", err)
	}
	defer f.Close()
	return ReadSample(f, name)
}

// ReadSample decodes WAV data from r into a Sample. The RIFF chunk layout is
// read via ReadAt, so plain streams must be buffered into a bytes.Reader
// first; files can be passed as-is.
func ReadSample(r interface {
	io.Reader
	io.ReaderAt
}, name string) (*Sample, error) {
	reader := wav.NewReader(r)
	format, err := reader.Format()
	if err != nil {
		return nil, fmt.Errorf("could not read wav format: %w", err)
	}
	if format.NumChannels < 1 || format.NumChannels > 2 {
		return nil, fmt.Errorf("unsupported channel count %d", format.NumChannels)
	}
	sample := &Sample{Name: name, SampleRate: int(format.SampleRate)}
	for {
		samples, err := reader.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not decode wav samples: %w", err)
		}
		for _, s := range samples {
			sample.Left = append(sample.Left, float32(reader.FloatValue(s, 0)))
			if format.NumChannels == 2 {
				sample.Right = append(sample.Right, float32(reader.FloatValue(s, 1)))
			}
		}
	}
	return sample, nil
}
