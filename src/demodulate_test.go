package gibberlink

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRoundTripSimpleMessage(t *testing.T) {
	var modem = newTestModem(t)

	var audio, err = modem.Modulate("Hello, world!")
	require.NoError(t, err)

	var text, decodeErr = modem.Demodulate(audio)
	require.NoError(t, decodeErr)
	assert.Equal(t, "Hello, world!", text)
}

func TestRoundTripEmptyMessage(t *testing.T) {
	var modem = newTestModem(t)

	var audio, err = modem.Modulate("")
	require.NoError(t, err)

	var text, decodeErr = modem.Demodulate(audio)
	require.NoError(t, decodeErr)
	assert.Equal(t, "", text)
}

func TestRoundTripBitLevel(t *testing.T) {
	var modem = newTestModem(t)

	var audio, err = modem.Modulate("Hi")
	require.NoError(t, err)

	var bits, decodeErr = modem.DemodulateBits(audio)
	require.NoError(t, decodeErr)
	assert.Equal(t, "101010100100100001101001", bits)
}

func TestRoundTripLatinRunes(t *testing.T) {
	var modem = newTestModem(t)

	// Runes up to 0xFF ride as single 8-bit groups.
	var message = "héllo ÿ"

	var audio, err = modem.Modulate(message)
	require.NoError(t, err)

	var text, decodeErr = modem.Demodulate(audio)
	require.NoError(t, decodeErr)
	assert.Equal(t, message, text)
}

func TestRoundTripRapid(t *testing.T) {
	var modem = newTestModem(t)

	rapid.Check(t, func(t *rapid.T) {
		var codes = rapid.SliceOfN(rapid.IntRange(32, 126), 0, 8).Draw(t, "codes")

		var runes = make([]rune, len(codes))
		for i, c := range codes {
			runes[i] = rune(c)
		}
		var message = string(runes)

		var audio, err = modem.Modulate(message)
		require.NoError(t, err)

		var text, decodeErr = modem.Demodulate(audio)
		require.NoError(t, decodeErr)
		assert.Equal(t, message, text)
	})
}

func TestRoundTripSurvivesPaddingSilence(t *testing.T) {
	var modem = newTestModem(t)
	var c = modem.Config()

	var audio, err = modem.Modulate("aligned?")
	require.NoError(t, err)

	var padded = append(c.Silence(0.15), audio...)
	padded = append(padded, c.Silence(0.1)...)

	var text, decodeErr = modem.Demodulate(padded)
	require.NoError(t, decodeErr)
	assert.Equal(t, "aligned?", text)
}

func TestPacketRoundTrip(t *testing.T) {
	var modem = newTestModem(t)

	var before = time.Now().Unix()
	var audio, err = modem.ModulatePacket(`{"a":1}`)
	require.NoError(t, err)

	var packet, decodeErr = modem.DemodulatePacket(audio)
	require.NoError(t, decodeErr)

	assert.Equal(t, `{"a":1}`, packet.Data)
	assert.Equal(t, 7, packet.Size)
	assert.Equal(t, checksum(`{"a":1}`), packet.Checksum)
	assert.GreaterOrEqual(t, packet.Timestamp, before)
	assert.LessOrEqual(t, packet.Timestamp, time.Now().Unix())
}

func TestPacketChecksumMismatchOverAir(t *testing.T) {
	var modem = newTestModem(t)

	// Envelope whose payload no longer matches its checksum, as a bit
	// flip inside the data region would leave it.
	var envelope, err = json.Marshal(Packet{
		Timestamp: 1700000000,
		Size:      7,
		Checksum:  checksum(`{"a":1}`),
		Data:      `{"a":0}`,
	})
	require.NoError(t, err)

	var bits, frameErr = Frame(string(envelope))
	require.NoError(t, frameErr)

	var audio, modErr = modem.ModulateBits(bits)
	require.NoError(t, modErr)

	var _, decodeErr = modem.DemodulatePacket(audio)
	assert.ErrorIs(t, decodeErr, ErrChecksum)
}

func TestSyncCorruptionOverAir(t *testing.T) {
	var modem = newTestModem(t)

	var bits, err = Frame("Hi")
	require.NoError(t, err)

	// Flip the first sync bit before transmission.
	var corrupted = "0" + bits[1:]

	var audio, modErr = modem.ModulateBits(corrupted)
	require.NoError(t, modErr)

	var _, decodeErr = modem.Demodulate(audio)
	assert.ErrorIs(t, decodeErr, ErrSyncMismatch)
}

func TestUnrecognizedSymbolTone(t *testing.T) {
	var modem = newTestModem(t)
	var c = modem.Config()

	// A well formed transmission carrying one tone far outside the
	// constellation band.
	var audio []float64
	audio = append(audio, c.Beep(c.StartMarkerFrequency, c.MarkerDuration, c.MarkerAmplitude)...)
	audio = append(audio, c.Silence(c.StartMarkerGap)...)
	audio = append(audio, c.Beep(400, c.SymbolDuration, 0.4)...)
	audio = append(audio, c.Silence(c.SymbolGap)...)
	audio = append(audio, c.Boop(c.EndMarkerFrequency, c.MarkerDuration, c.MarkerAmplitude)...)
	normalize(audio, c.NormalizeCeiling)

	var _, err = modem.DemodulateBits(audio)
	assert.ErrorIs(t, err, ErrUnrecognizedSymbol)
}

func TestDecodeSilence(t *testing.T) {
	var modem = newTestModem(t)

	var _, err = modem.Demodulate(modem.Config().Silence(1.0))
	assert.ErrorIs(t, err, ErrStartMarkerNotFound)
}

func TestDecodeUnrelatedTone(t *testing.T) {
	var modem = newTestModem(t)

	// A steady tone nowhere near the start marker is not a transmission.
	var _, err = modem.Demodulate(modem.Config().Beep(1000, 0.5, 0.5))
	assert.ErrorIs(t, err, ErrStartMarkerNotFound)
}

func TestDecodeTruncatedTransmission(t *testing.T) {
	var modem = newTestModem(t)

	var audio, err = modem.Modulate("Hi")
	require.NoError(t, err)

	// Cut deep enough to take the whole end marker with it.
	var cut = audio[:len(audio)-2500]

	var _, decodeErr = modem.DemodulateBits(cut)
	assert.ErrorIs(t, decodeErr, ErrEndMarkerNotFound)
}

func TestSymbolBudgetStopsDecode(t *testing.T) {
	var config = DefaultConfig()
	config.MaxSymbols = 2
	var limited, err = NewModem(config)
	require.NoError(t, err)

	var audio, modErr = newTestModem(t).Modulate("Hi")
	require.NoError(t, modErr)

	// The budget caps accumulation without reporting an error; two
	// symbols cover exactly the sync header.
	var bits, decodeErr = limited.DemodulateBits(audio)
	require.NoError(t, decodeErr)
	assert.Equal(t, SyncHeader, bits)

	var text, textErr = limited.Demodulate(audio)
	require.NoError(t, textErr)
	assert.Equal(t, "", text)
}

func TestConversationRoundTrip(t *testing.T) {
	var modem = newTestModem(t)

	var messages = []string{"Hello", "is anyone listening?", "over and out"}

	var audio, err = modem.ModulateConversation(messages)
	require.NoError(t, err)

	var decoded, decodeErr = modem.DemodulateConversation(audio)
	require.NoError(t, decodeErr)
	assert.Equal(t, messages, decoded)
}

func TestConversationSingleMessage(t *testing.T) {
	var modem = newTestModem(t)

	var audio, err = modem.ModulateConversation([]string{"solo"})
	require.NoError(t, err)

	var decoded, decodeErr = modem.DemodulateConversation(audio)
	require.NoError(t, decodeErr)
	assert.Equal(t, []string{"solo"}, decoded)
}

func TestConversationAcceptsSingleTransmission(t *testing.T) {
	var modem = newTestModem(t)

	// A bare transmission without the session framing still decodes.
	var audio, err = modem.Modulate("no session beep")
	require.NoError(t, err)

	var decoded, decodeErr = modem.DemodulateConversation(audio)
	require.NoError(t, decodeErr)
	assert.Equal(t, []string{"no session beep"}, decoded)
}

func TestConversationEmptyAudio(t *testing.T) {
	var modem = newTestModem(t)

	var _, err = modem.DemodulateConversation(modem.Config().Silence(0.5))
	assert.ErrorIs(t, err, ErrStartMarkerNotFound)
}

func TestDominantFrequency(t *testing.T) {
	var config = DefaultConfig()

	// 441 samples at 44100 Hz give exact 100 Hz bins.
	var f = dominantFrequency(config.Beep(1000, 0.01, 0.5), config.SampleRate)
	assert.InDelta(t, 1000.0, f, 1e-9)

	f = dominantFrequency(config.Beep(2500, 0.05, 0.6), config.SampleRate)
	assert.InDelta(t, 2500.0, f, 1e-9)

	assert.Zero(t, dominantFrequency(nil, config.SampleRate))
	assert.Zero(t, dominantFrequency(config.Silence(0.01), config.SampleRate))
}

func TestWindowFrequencyMatchesCleanSymbols(t *testing.T) {
	var modem = newTestModem(t)
	var c = modem.Config()

	// Every constellation tone, scaled the way normalization would,
	// must resolve to its own frequency.
	for symbol, frequency := range modem.Constellation().Frequencies() {
		var window = c.symbolTone(frequency)

		var scaled = make([]float64, len(window))
		for i, s := range window {
			scaled[i] = s * 1.33
		}

		var got = modem.windowFrequency(scaled)
		assert.InDelta(t, frequency, got, 1e-9, "symbol %d", symbol)
	}
}

func TestWindowFrequencyMatchesEndMarker(t *testing.T) {
	var modem = newTestModem(t)
	var c = modem.Config()

	var marker = c.Boop(c.EndMarkerFrequency, c.MarkerDuration, c.MarkerAmplitude)
	var window = marker[:c.symbolSamples()]

	var got = modem.windowFrequency(window)
	assert.InDelta(t, c.EndMarkerFrequency, got, 1e-9)
}

func TestWindowFrequencyFallsBackToSpectrum(t *testing.T) {
	var modem = newTestModem(t)
	var c = modem.Config()

	// A tone matching none of the transmit shapes gets the raw spectral
	// estimate, which the constellation lookup will then reject.
	var got = modem.windowFrequency(c.Beep(400, c.SymbolDuration, 0.4))
	assert.InDelta(t, 400.0, got, 1e-9)
}

func TestFindStartMarkerAlignment(t *testing.T) {
	var modem = newTestModem(t)
	var c = modem.Config()

	var audio = append(c.Silence(0.1), c.Beep(c.StartMarkerFrequency, c.MarkerDuration, c.MarkerAmplitude)...)
	audio = append(audio, c.Silence(0.05)...)

	var pos, found = modem.findStartMarker(audio, 0)
	require.True(t, found)
	assert.Equal(t, 4410+c.markerSamples(), pos, "refinement must land on the exact marker start")
}

func TestFindStartMarkerPastEnd(t *testing.T) {
	var modem = newTestModem(t)
	var c = modem.Config()

	var audio = c.Silence(0.2)

	var _, found = modem.findStartMarker(audio, len(audio))
	assert.False(t, found)
}

func TestDemodulateAmplitudeInvariance(t *testing.T) {
	var modem = newTestModem(t)

	var audio, err = modem.Modulate("quiet")
	require.NoError(t, err)

	// A recording chain that attenuates the signal must not change the
	// decode.
	var quiet = make([]float64, len(audio))
	for i, s := range audio {
		quiet[i] = s * 0.05
	}

	var text, decodeErr = modem.Demodulate(quiet)
	require.NoError(t, decodeErr)
	assert.Equal(t, "quiet", text)
}
