package gibberlink

/*------------------------------------------------------------------
 *
 * Purpose:	Protocol configuration.
 *
 * Description:	All timing, frequency, and amplitude parameters live in
 *		one immutable Config value.  A Modem takes a copy at
 *		construction and never mutates it, so concurrent encode
 *		and decode calls need no coordination.
 *
 *		Defaults are the canonical over-the-air parameters.
 *		A YAML profile can override any subset, and the command
 *		line tools apply flag overrides on top of that, in that
 *		order: defaults, then file, then flags.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SyncHeader is the fixed bit pattern that starts every frame.
const SyncHeader = "10101010"

// NumSymbols and SymbolBits fix the constellation size.  The bit layout
// (4-bit groups) and the 16-tone table both depend on these.
const (
	NumSymbols = 16
	SymbolBits = 4
)

type Config struct {
	SampleRate int `yaml:"sample_rate"` // Hz, mono

	// Constellation: tone s is BaseFrequency + s*FrequencyStep, s in 0..15.
	BaseFrequency float64 `yaml:"base_frequency"`
	FrequencyStep float64 `yaml:"frequency_step"`

	// Symbol timing.  Durations are in seconds.
	SymbolDuration float64 `yaml:"symbol_duration"`
	SymbolGap      float64 `yaml:"symbol_gap"`

	// Tone shaping.  Tones at or above BeepThreshold render as a clean
	// faded sine ("beep"), below it as a swept decaying sine ("boop").
	// The split is cosmetic; no information rides on the shape.
	BeepThreshold    float64 `yaml:"beep_threshold"`
	BeepAmplitude    float64 `yaml:"beep_amplitude"`
	BoopAmplitude    float64 `yaml:"boop_amplitude"`
	BeepFadeDuration float64 `yaml:"beep_fade_duration"`
	BoopSweepRate    float64 `yaml:"boop_sweep_rate"`  // Hz
	BoopSweepDepth   float64 `yaml:"boop_sweep_depth"` // fraction of base frequency
	BoopDecayRate    float64 `yaml:"boop_decay_rate"`  // exponential decay exponent

	// Frame markers.  Both sit outside the constellation band.
	StartMarkerFrequency float64 `yaml:"start_marker_frequency"`
	EndMarkerFrequency   float64 `yaml:"end_marker_frequency"`
	MarkerDuration       float64 `yaml:"marker_duration"`
	MarkerAmplitude      float64 `yaml:"marker_amplitude"`
	StartMarkerGap       float64 `yaml:"start_marker_gap"` // silence after the start marker

	NormalizeCeiling float64 `yaml:"normalize_ceiling"` // peak amplitude after normalization

	// Decode tolerances.
	FrequencyTolerance float64 `yaml:"frequency_tolerance"` // constellation lookup window
	MarkerTolerance    float64 `yaml:"marker_tolerance"`    // marker proximity test
	MaxSymbols         int     `yaml:"max_symbols"`         // safety bound per message

	// Conversation mode.
	MessageGap          float64 `yaml:"message_gap"` // silence between messages
	SessionEndFrequency float64 `yaml:"session_end_frequency"`
	SessionEndDuration  float64 `yaml:"session_end_duration"`
	SessionEndAmplitude float64 `yaml:"session_end_amplitude"`
}

func DefaultConfig() Config {
	return Config{
		SampleRate:           44100,
		BaseFrequency:        800,
		FrequencyStep:        100,
		SymbolDuration:       0.01,
		SymbolGap:            0.002,
		BeepThreshold:        1600,
		BeepAmplitude:        0.5,
		BoopAmplitude:        0.4,
		BeepFadeDuration:     0.001,
		BoopSweepRate:        5,
		BoopSweepDepth:       0.2,
		BoopDecayRate:        3.0,
		StartMarkerFrequency: 2500,
		EndMarkerFrequency:   600,
		MarkerDuration:       0.05,
		MarkerAmplitude:      0.6,
		StartMarkerGap:       0.01,
		NormalizeCeiling:     0.8,
		FrequencyTolerance:   50,
		MarkerTolerance:      100,
		MaxSymbols:           4096,
		MessageGap:           0.2,
		SessionEndFrequency:  3000,
		SessionEndDuration:   0.1,
		SessionEndAmplitude:  0.7,
	}
}

/*------------------------------------------------------------------
 *
 * Function:	LoadConfig
 *
 * Purpose:	Read a YAML profile over the defaults.
 *
 * Inputs:	path - profile file.  Keys present override defaults,
 *		keys absent keep them.
 *
 * Returns:	Validated Config, or an error naming the offending file
 *		or parameter.
 *
 *------------------------------------------------------------------*/

func LoadConfig(path string) (Config, error) {
	var config = DefaultConfig()

	var data, err = os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("config %s: %w", path, err)
	}

	return config, nil
}

func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}

	if c.BaseFrequency <= 0 || c.FrequencyStep <= 0 {
		return fmt.Errorf("base_frequency and frequency_step must be positive, got %g and %g", c.BaseFrequency, c.FrequencyStep)
	}

	// Every tone, marker included, must sit below Nyquist.
	var top = c.BaseFrequency + float64(NumSymbols-1)*c.FrequencyStep
	var nyquist = float64(c.SampleRate) / 2
	for _, f := range []float64{top, c.StartMarkerFrequency, c.SessionEndFrequency} {
		if f >= nyquist {
			return fmt.Errorf("frequency %g is at or above Nyquist (%g)", f, nyquist)
		}
	}

	if c.SymbolDuration <= 0 || c.SymbolGap < 0 || c.MarkerDuration <= 0 || c.StartMarkerGap < 0 {
		return fmt.Errorf("symbol and marker durations must be positive")
	}

	if c.NormalizeCeiling <= 0 || c.NormalizeCeiling >= 1 {
		return fmt.Errorf("normalize_ceiling must be in (0, 1), got %g", c.NormalizeCeiling)
	}

	if c.FrequencyTolerance <= 0 || c.FrequencyTolerance*2 > c.FrequencyStep {
		// Overlapping tolerance windows would let two symbols claim one estimate.
		return fmt.Errorf("frequency_tolerance must be in (0, step/2], got %g with step %g", c.FrequencyTolerance, c.FrequencyStep)
	}

	if c.MarkerTolerance <= 0 {
		return fmt.Errorf("marker_tolerance must be positive, got %g", c.MarkerTolerance)
	}

	// Markers must be unmistakable for constellation tones.
	if c.EndMarkerFrequency+c.MarkerTolerance >= c.BaseFrequency-c.FrequencyTolerance {
		return fmt.Errorf("end_marker_frequency %g too close to constellation base %g", c.EndMarkerFrequency, c.BaseFrequency)
	}
	if c.StartMarkerFrequency-c.MarkerTolerance <= top+c.FrequencyTolerance {
		return fmt.Errorf("start_marker_frequency %g too close to constellation top %g", c.StartMarkerFrequency, top)
	}

	if c.MaxSymbols < 1 {
		return fmt.Errorf("max_symbols must be at least 1, got %d", c.MaxSymbols)
	}

	return nil
}

// Sample-count conversions.  Fractional samples truncate, matching the
// rendered segment lengths exactly.

func (c Config) samples(duration float64) int {
	return int(float64(c.SampleRate) * duration)
}

func (c Config) symbolSamples() int     { return c.samples(c.SymbolDuration) }
func (c Config) gapSamples() int        { return c.samples(c.SymbolGap) }
func (c Config) markerSamples() int     { return c.samples(c.MarkerDuration) }
func (c Config) markerGapSamples() int  { return c.samples(c.StartMarkerGap) }
func (c Config) messageGapSamples() int { return c.samples(c.MessageGap) }

// slotSamples is the stride from one symbol window to the next.
func (c Config) slotSamples() int { return c.symbolSamples() + c.gapSamples() }
