package gibberlink

/*------------------------------------------------------------------
 *
 * Purpose:	Render single tones as sample buffers.
 *
 * Description:	Two shapes.  A "beep" is a clean sine with a 1 ms linear
 *		fade at each edge to kill click transients at segment
 *		boundaries.  A "boop" is a sine whose frequency is swept
 *		by a low-rate sinusoid around the base and whose amplitude
 *		decays exponentially.
 *
 *		The time axis spans [0, duration] inclusive across
 *		n = int(rate*duration) samples.  The decoder depends on
 *		these exact shapes (it scores windows against them), so
 *		any change here is a wire format change.
 *
 *------------------------------------------------------------------*/

import "math"

// timeAxis returns n points from 0 to duration inclusive.
func timeAxis(n int, duration float64) []float64 {
	var t = make([]float64, n)
	if n < 2 {
		return t
	}
	for i := range t {
		t[i] = float64(i) * duration / float64(n-1)
	}
	return t
}

func (c Config) Beep(frequency float64, duration float64, amplitude float64) []float64 {
	return c.beepWave(frequency, duration, amplitude, 0)
}

func (c Config) Boop(frequency float64, duration float64, amplitude float64) []float64 {
	return c.boopWave(frequency, duration, amplitude, 0)
}

// beepWave and boopWave take a phase offset so the decoder can build
// quadrature twins of each shape (phase pi/2) and score windows without
// caring where the tone's phase landed.

func (c Config) beepWave(frequency float64, duration float64, amplitude float64, phase float64) []float64 {
	var n = c.samples(duration)
	var t = timeAxis(n, duration)

	var wave = make([]float64, n)
	for i := range wave {
		wave[i] = amplitude * math.Sin(2*math.Pi*frequency*t[i]+phase)
	}

	// Linear fade in and out.  Skipped when the tone is too short to
	// hold both ramps.
	var fade = c.samples(c.BeepFadeDuration)
	if n > 2*fade && fade > 1 {
		for i := 0; i < fade; i++ {
			var ramp = float64(i) / float64(fade-1)
			wave[i] *= ramp
			wave[n-1-i] *= ramp
		}
	}

	return wave
}

func (c Config) boopWave(frequency float64, duration float64, amplitude float64, phase float64) []float64 {
	var n = c.samples(duration)
	var t = timeAxis(n, duration)

	var wave = make([]float64, n)
	for i := range wave {
		var swept = frequency * (1 + c.BoopSweepDepth*math.Sin(2*math.Pi*c.BoopSweepRate*t[i]))
		wave[i] = amplitude * math.Sin(2*math.Pi*swept*t[i]+phase) * math.Exp(-c.BoopDecayRate*t[i])
	}

	return wave
}

func (c Config) Silence(duration float64) []float64 {
	return make([]float64, c.samples(duration))
}

// symbolTone renders one constellation tone for a symbol slot, beep or
// boop by frequency band.
func (c Config) symbolTone(frequency float64) []float64 {
	if frequency >= c.BeepThreshold {
		return c.Beep(frequency, c.SymbolDuration, c.BeepAmplitude)
	}
	return c.Boop(frequency, c.SymbolDuration, c.BoopAmplitude)
}

// normalize scales the buffer so its peak magnitude is exactly ceiling.
// Silent buffers pass through untouched.
func normalize(samples []float64, ceiling float64) {
	var peak float64
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}

	if peak == 0 {
		return
	}

	for i := range samples {
		samples[i] = samples[i] / peak * ceiling
	}
}
