package gibberlink

/*------------------------------------------------------------------
 *
 * Purpose:	The encode side: bit sequences to audio.
 *
 * Description:	A transmission is, in order: the start-marker beep, a
 *		short silence, one constellation tone per 4-bit group
 *		each followed by a tiny gap, and the end-marker boop.
 *		The finished buffer is peak-normalized to the configured
 *		ceiling.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"strconv"
)

// Modem holds the immutable protocol state: the configuration, the tone
// constellation, and the reference waveforms the decoder scores against.
// A Modem is safe for concurrent use; nothing here mutates after New.
type Modem struct {
	config        Config
	constellation Constellation

	symbolRefs []toneRef // decode references, one per symbol, plus the end marker
	startRef   []float64 // start-marker waveform for matched-filter alignment
}

func NewModem(config Config) (*Modem, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var m = &Modem{
		config:        config,
		constellation: NewConstellation(config),
	}
	m.buildReferences()

	return m, nil
}

func (m *Modem) Config() Config               { return m.config }
func (m *Modem) Constellation() Constellation { return m.constellation }

/*------------------------------------------------------------------
 *
 * Function:	ModulateBits
 *
 * Purpose:	Render a framed bit sequence as audio.
 *
 * Inputs:	bits - '0'/'1' string, normally from Frame or
 *		FramePacket.  Only whole 4-bit groups are rendered; a
 *		trailing partial group is ignored, as framing always
 *		pads to a symbol boundary.
 *
 * Returns:	Normalized sample buffer.
 *
 *------------------------------------------------------------------*/

func (m *Modem) ModulateBits(bits string) ([]float64, error) {
	var c = m.config

	var groups = len(bits) / SymbolBits
	var total = c.markerSamples() + c.markerGapSamples() +
		groups*(c.symbolSamples()+c.gapSamples()) +
		c.markerSamples()

	var audio = make([]float64, 0, total)
	audio = append(audio, c.Beep(c.StartMarkerFrequency, c.MarkerDuration, c.MarkerAmplitude)...)
	audio = append(audio, c.Silence(c.StartMarkerGap)...)

	for i := 0; i+SymbolBits <= len(bits); i += SymbolBits {
		var symbol, err = strconv.ParseUint(bits[i:i+SymbolBits], 2, 8)
		if err != nil {
			return nil, fmt.Errorf("bit group at %d: %w", i, err)
		}

		var frequency, freqErr = m.constellation.SymbolToFrequency(int(symbol))
		if freqErr != nil {
			return nil, freqErr
		}

		audio = append(audio, c.symbolTone(frequency)...)
		audio = append(audio, c.Silence(c.SymbolGap)...)
	}

	audio = append(audio, c.Boop(c.EndMarkerFrequency, c.MarkerDuration, c.MarkerAmplitude)...)

	normalize(audio, c.NormalizeCeiling)

	logger.Debug("modulated", "bits", len(bits), "symbols", groups, "samples", len(audio))

	return audio, nil
}

// Modulate encodes a text message: frame, then render.
func (m *Modem) Modulate(text string) ([]float64, error) {
	var bits, err = Frame(text)
	if err != nil {
		return nil, err
	}
	return m.ModulateBits(bits)
}

// ModulatePacket encodes an already-serialized payload string inside the
// checksummed envelope.
func (m *Modem) ModulatePacket(data string) ([]float64, error) {
	var bits, err = FramePacket(data)
	if err != nil {
		return nil, err
	}
	return m.ModulateBits(bits)
}

/*------------------------------------------------------------------
 *
 * Function:	ModulateConversation
 *
 * Purpose:	Encode a whole exchange: each message modulated in full,
 *		joined by a longer silence, closed with the session-end
 *		beep.
 *
 * Description:	Messages are individually normalized; the concatenation
 *		is not re-normalized, so the peak stays at the ceiling
 *		and the session-end beep keeps its own level.
 *
 *------------------------------------------------------------------*/

func (m *Modem) ModulateConversation(messages []string) ([]float64, error) {
	var c = m.config

	var audio []float64
	for i, message := range messages {
		var encoded, err = m.Modulate(message)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		audio = append(audio, encoded...)

		if i < len(messages)-1 {
			audio = append(audio, c.Silence(c.MessageGap)...)
		}
	}

	audio = append(audio, c.Beep(c.SessionEndFrequency, c.SessionEndDuration, c.SessionEndAmplitude)...)

	return audio, nil
}
