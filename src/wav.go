package gibberlink

/*------------------------------------------------------------------
 *
 * Purpose:	WAV file persistence for transmissions.
 *
 * Description:	16-bit PCM mono at the protocol sample rate.  Samples
 *		are written verbatim apart from the int16 quantization;
 *		no filtering or level changes on either path.  Reading
 *		accepts exactly the format we write and rejects anything
 *		else with a reason rather than decoding garbage.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lestrrat-go/strftime"
	wav "github.com/youpy/go-wav"
)

const wavChunkSamples = 4096

func WriteWAVFile(path string, samples []float64, sampleRate int) error {
	var f, err = os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	var writer = wav.NewWriter(f, uint32(len(samples)), 1, uint32(sampleRate), 16)

	var chunk = make([]wav.Sample, 0, wavChunkSamples)
	for start := 0; start < len(samples); start += wavChunkSamples {
		var end = min(start+wavChunkSamples, len(samples))

		chunk = chunk[:0]
		for _, s := range samples[start:end] {
			chunk = append(chunk, wav.Sample{Values: [2]int{pcm16(s), 0}})
		}

		if err := writer.WriteSamples(chunk); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	logger.Debug("wrote wav", "path", path, "samples", len(samples), "rate", sampleRate)

	return nil
}

// pcm16 quantizes one normalized sample, clamping the rare value that
// normalization left at exactly the ceiling boundary.
func pcm16(s float64) int {
	var v = int(s * 32767)
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return v
}

/*------------------------------------------------------------------
 *
 * Function:	ReadWAVFile
 *
 * Purpose:	Load a transmission recording.
 *
 * Returns:	Samples scaled to [-1, 1] and the file's sample rate.
 *		The rate is returned rather than checked here; the
 *		caller decides whether to adapt or refuse.
 *
 *------------------------------------------------------------------*/

func ReadWAVFile(path string) ([]float64, int, error) {
	var f, err = os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var reader = wav.NewReader(f)

	var format, formatErr = reader.Format()
	if formatErr != nil {
		return nil, 0, fmt.Errorf("reading %s header: %w", path, formatErr)
	}

	if format.AudioFormat != wav.AudioFormatPCM {
		return nil, 0, fmt.Errorf("%s: audio format %d, want PCM", path, format.AudioFormat)
	}
	if format.NumChannels != 1 {
		return nil, 0, fmt.Errorf("%s: %d channels, want mono", path, format.NumChannels)
	}
	if format.BitsPerSample != 16 {
		return nil, 0, fmt.Errorf("%s: %d bits per sample, want 16", path, format.BitsPerSample)
	}

	var samples []float64
	for {
		var block, readErr = reader.ReadSamples(wavChunkSamples)
		for _, s := range block {
			samples = append(samples, float64(reader.IntValue(s, 0))/32768)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, 0, fmt.Errorf("reading %s: %w", path, readErr)
		}
	}

	logger.Debug("read wav", "path", path, "samples", len(samples), "rate", format.SampleRate)

	return samples, int(format.SampleRate), nil
}

// TimestampedWAVName builds a default output filename like
// prefix-20260822-153005.wav.
func TimestampedWAVName(prefix string) string {
	var stamp, err = strftime.Format("%Y%m%d-%H%M%S", time.Now())
	if err != nil {
		stamp = fmt.Sprintf("%d", time.Now().Unix())
	}
	return fmt.Sprintf("%s-%s.wav", prefix, stamp)
}
