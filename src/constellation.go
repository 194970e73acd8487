package gibberlink

/*------------------------------------------------------------------
 *
 * Purpose:	The tone constellation: a fixed bijection between the
 *		16 four-bit symbols and 16 distinct frequencies.
 *
 * Description:	Built once per Modem from the Config and never changed.
 *		Encoding is an exact array lookup.  Decoding accepts a
 *		measured frequency that is not bit-exact and resolves it
 *		to the nearest entry within a tolerance; anything farther
 *		than the tolerance from every entry is a decode failure,
 *		not a guess.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math"
)

type Constellation struct {
	freqs [NumSymbols]float64
}

func NewConstellation(config Config) Constellation {
	var c Constellation
	for s := range c.freqs {
		c.freqs[s] = config.BaseFrequency + float64(s)*config.FrequencyStep
	}
	return c
}

// Frequencies returns the table in symbol order.
func (c Constellation) Frequencies() []float64 {
	return c.freqs[:]
}

// SymbolToFrequency is the exact encode-side lookup.
func (c Constellation) SymbolToFrequency(symbol int) (float64, error) {
	if symbol < 0 || symbol >= NumSymbols {
		return 0, fmt.Errorf("symbol %d outside 0..%d", symbol, NumSymbols-1)
	}
	return c.freqs[symbol], nil
}

/*------------------------------------------------------------------
 *
 * Function:	FrequencyToSymbol
 *
 * Purpose:	Decode-side lookup tolerating measurement error.
 *
 * Inputs:	frequency - dominant frequency estimate from one symbol
 *			window.
 *		tolerance - maximum accepted distance from a table entry.
 *
 * Returns:	The nearest symbol, or ErrUnrecognizedSymbol when no
 *		entry is within tolerance.
 *
 *------------------------------------------------------------------*/

func (c Constellation) FrequencyToSymbol(frequency float64, tolerance float64) (int, error) {
	var best = -1
	var bestDistance = math.Inf(1)

	for s, f := range c.freqs {
		var d = math.Abs(frequency - f)
		if d < bestDistance {
			best = s
			bestDistance = d
		}
	}

	if bestDistance > tolerance {
		return -1, fmt.Errorf("%g Hz: %w", frequency, ErrUnrecognizedSymbol)
	}

	return best, nil
}
