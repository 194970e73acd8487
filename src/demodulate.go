package gibberlink

/*------------------------------------------------------------------
 *
 * Purpose:	The decode side: audio back to bit sequences.
 *
 * Description:	Decoding walks the signal the same way the modulator
 *		built it.  Find the start marker (coarse spectral scan,
 *		then matched-filter refinement to sample alignment), skip
 *		the post-marker silence, then step through fixed symbol
 *		slots estimating each window's frequency and running it
 *		through the constellation's tolerant lookup, until the
 *		end marker or the symbol budget stops the walk.
 *
 *		The frequency estimator scores each window against the
 *		known transmit shapes.  The boop sweep pushes spectral
 *		energy as much as a full constellation step above the
 *		nominal frequency, so a bare spectral peak would be
 *		ambiguous for the upper boop tones; correlating against
 *		the exact shapes is not.  Windows that match no shape get
 *		an honest FFT peak estimate instead, which the lookup
 *		then rejects as an unrecognized symbol.
 *
 *------------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/mjibson/go-dsp/fft"
)

// Fraction of a window's energy the best reference must capture before
// its frequency is trusted over the raw spectral peak.  Clean windows
// score near 1, corrupted ones near 0.
const referenceQualityFloor = 0.3

// toneRef is one decode reference: a transmit shape and its quadrature
// twin, so scoring does not depend on the phase the window arrived with.
type toneRef struct {
	frequency  float64
	inPhase    []float64
	quadrature []float64
	energy     float64
}

func newToneRef(frequency float64, inPhase []float64, quadrature []float64) toneRef {
	return toneRef{
		frequency:  frequency,
		inPhase:    inPhase,
		quadrature: quadrature,
		energy:     dot(inPhase, inPhase),
	}
}

// buildReferences renders the waveforms the decoder compares against:
// every constellation tone exactly as transmitted, the leading slice of
// the end-marker boop, and the start-marker beep for alignment.
func (m *Modem) buildReferences() {
	var c = m.config

	m.symbolRefs = make([]toneRef, 0, NumSymbols+1)
	for _, frequency := range m.constellation.Frequencies() {
		var ref toneRef
		if frequency >= c.BeepThreshold {
			ref = newToneRef(frequency,
				c.beepWave(frequency, c.SymbolDuration, c.BeepAmplitude, 0),
				c.beepWave(frequency, c.SymbolDuration, c.BeepAmplitude, math.Pi/2))
		} else {
			ref = newToneRef(frequency,
				c.boopWave(frequency, c.SymbolDuration, c.BoopAmplitude, 0),
				c.boopWave(frequency, c.SymbolDuration, c.BoopAmplitude, math.Pi/2))
		}
		m.symbolRefs = append(m.symbolRefs, ref)
	}

	// The end marker is longer than a symbol window; score against its
	// leading slice.
	var endI = c.boopWave(c.EndMarkerFrequency, c.MarkerDuration, c.MarkerAmplitude, 0)
	var endQ = c.boopWave(c.EndMarkerFrequency, c.MarkerDuration, c.MarkerAmplitude, math.Pi/2)
	var slice = min(c.symbolSamples(), len(endI))
	m.symbolRefs = append(m.symbolRefs, newToneRef(c.EndMarkerFrequency, endI[:slice], endQ[:slice]))

	m.startRef = c.Beep(c.StartMarkerFrequency, c.MarkerDuration, c.MarkerAmplitude)
}

func dot(a []float64, b []float64) float64 {
	var n = min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

/*------------------------------------------------------------------
 *
 * Function:	dominantFrequency
 *
 * Purpose:	Raw spectral peak of a window.
 *
 * Returns:	Frequency in Hz of the strongest non-DC FFT bin.  Zero
 *		for a silent window.
 *
 *------------------------------------------------------------------*/

func dominantFrequency(samples []float64, sampleRate int) float64 {
	if len(samples) == 0 {
		return 0
	}

	var spectrum = fft.FFTReal(samples)

	var best = 0
	var bestMagnitude float64
	for i := 1; i <= len(samples)/2; i++ {
		var magnitude = cmplx.Abs(spectrum[i])
		if magnitude > bestMagnitude {
			best = i
			bestMagnitude = magnitude
		}
	}

	return float64(best) * float64(sampleRate) / float64(len(samples))
}

// windowFrequency estimates the frequency of one symbol window: best
// reference if it captures enough of the window energy, raw spectral
// peak otherwise.
func (m *Modem) windowFrequency(window []float64) float64 {
	var energy = dot(window, window)
	if energy == 0 {
		return 0
	}

	var best = -1
	var bestScore float64
	for i := range m.symbolRefs {
		var ref = &m.symbolRefs[i]
		if ref.energy == 0 {
			continue
		}
		var ip = dot(window, ref.inPhase)
		var qp = dot(window, ref.quadrature)
		var score = (ip*ip + qp*qp) / ref.energy
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best >= 0 && bestScore/energy >= referenceQualityFloor {
		return m.symbolRefs[best].frequency
	}

	return dominantFrequency(window, m.config.SampleRate)
}

/*------------------------------------------------------------------
 *
 * Function:	findStartMarker
 *
 * Purpose:	Locate the start-marker beep at or after a given offset.
 *
 * Description:	Coarse pass: slide a marker-length window by quarter
 *		steps and test its spectral peak against the marker
 *		frequency.  Fine pass: matched-filter the known marker
 *		waveform around the coarse hit and take the correlation
 *		peak.  The coarse window can match while only partially
 *		overlapping the marker, so the fine search spans a full
 *		marker length each side.
 *
 * Returns:	Sample index just past the marker, and whether one was
 *		found.
 *
 *------------------------------------------------------------------*/

func (m *Modem) findStartMarker(samples []float64, from int) (int, bool) {
	var c = m.config
	var markerLen = c.markerSamples()

	if from < 0 {
		from = 0
	}
	var last = len(samples) - markerLen
	if last < from {
		return 0, false
	}

	var hop = max(markerLen/4, 1)

	var coarse = -1
	for i := from; i <= last; i += hop {
		var f = dominantFrequency(samples[i:i+markerLen], c.SampleRate)
		if math.Abs(f-c.StartMarkerFrequency) <= c.MarkerTolerance {
			coarse = i
			break
		}
	}
	if coarse < 0 {
		// The hop grid can step past a marker butted against the end.
		var f = dominantFrequency(samples[last:last+markerLen], c.SampleRate)
		if math.Abs(f-c.StartMarkerFrequency) <= c.MarkerTolerance {
			coarse = last
		}
	}
	if coarse < 0 {
		return 0, false
	}

	var lo = max(from, coarse-markerLen)
	var hi = min(last, coarse+markerLen)

	var best = lo
	var bestScore = -1.0
	for i := lo; i <= hi; i++ {
		var score = math.Abs(dot(samples[i:i+markerLen], m.startRef))
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	logger.Debug("start marker", "coarse", coarse, "aligned", best)

	return best + markerLen, true
}

/*------------------------------------------------------------------
 *
 * Function:	demodulateFrom
 *
 * Purpose:	Decode one transmission beginning at or after an offset.
 *
 * Returns:	The accumulated bit sequence, the index just past the
 *		end marker (for resuming in conversation audio), and an
 *		error for a missing marker or an unrecognizable window.
 *
 *------------------------------------------------------------------*/

func (m *Modem) demodulateFrom(samples []float64, from int) (string, int, error) {
	var c = m.config

	var pos, found = m.findStartMarker(samples, from)
	if !found {
		return "", from, fmt.Errorf("scanned %d samples: %w", len(samples)-from, ErrStartMarkerNotFound)
	}
	pos += c.markerGapSamples()

	var symbolLen = c.symbolSamples()
	var slot = c.slotSamples()

	var bits strings.Builder
	for count := 0; ; count++ {
		if count >= c.MaxSymbols {
			// Safety bound: stop accumulating, keep what we have.
			logger.Debug("symbol budget reached", "max", c.MaxSymbols)
			return bits.String(), pos, nil
		}

		if pos+symbolLen > len(samples) {
			return "", pos, fmt.Errorf("after %d symbols: %w", count, ErrEndMarkerNotFound)
		}

		var window = samples[pos : pos+symbolLen]
		var frequency = m.windowFrequency(window)

		if math.Abs(frequency-c.EndMarkerFrequency) <= c.MarkerTolerance {
			return bits.String(), pos + c.markerSamples(), nil
		}

		var symbol, err = m.constellation.FrequencyToSymbol(frequency, c.FrequencyTolerance)
		if err != nil {
			return "", pos, fmt.Errorf("symbol window %d: %w", count, err)
		}

		logger.Debug("symbol window", "index", count, "frequency", frequency, "symbol", symbol)

		fmt.Fprintf(&bits, "%0*b", SymbolBits, symbol)
		pos += slot
	}
}

// DemodulateBits recovers the framed bit sequence from one transmission.
func (m *Modem) DemodulateBits(samples []float64) (string, error) {
	var bits, _, err = m.demodulateFrom(samples, 0)
	return bits, err
}

// Demodulate recovers a text message.
func (m *Modem) Demodulate(samples []float64) (string, error) {
	var bits, err = m.DemodulateBits(samples)
	if err != nil {
		return "", err
	}
	return Deframe(bits)
}

// DemodulatePacket recovers and verifies a structured payload.
func (m *Modem) DemodulatePacket(samples []float64) (Packet, error) {
	var bits, err = m.DemodulateBits(samples)
	if err != nil {
		return Packet{}, err
	}
	return DeframePacket(bits)
}

/*------------------------------------------------------------------
 *
 * Function:	DemodulateConversation
 *
 * Purpose:	Decode every message in a conversation recording.
 *
 * Description:	Transmissions are located one after another by their
 *		start markers; silence between messages and the
 *		session-end beep match nothing and are skipped over.
 *		Audio containing no transmission at all reports
 *		ErrStartMarkerNotFound.
 *
 *------------------------------------------------------------------*/

func (m *Modem) DemodulateConversation(samples []float64) ([]string, error) {
	var messages []string

	var cursor = 0
	for {
		var bits, next, err = m.demodulateFrom(samples, cursor)
		if err != nil {
			if errors.Is(err, ErrStartMarkerNotFound) && len(messages) > 0 {
				return messages, nil
			}
			return nil, fmt.Errorf("message %d: %w", len(messages), err)
		}

		var text, deframeErr = Deframe(bits)
		if deframeErr != nil {
			return nil, fmt.Errorf("message %d: %w", len(messages), deframeErr)
		}

		messages = append(messages, text)
		cursor = next
	}
}
