package gibberlink

/*------------------------------------------------------------------
 *
 * Purpose:	Sound device playback and capture.
 *
 * Description:	Thin PortAudio layer for the command line tools.  The
 *		default devices are used; mono float streams at the
 *		protocol sample rate.  Each call owns its own PortAudio
 *		session, so callers need no setup or teardown.  Device
 *		errors propagate to the caller untouched.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

const deviceFrames = 1024

/*------------------------------------------------------------------
 *
 * Function:	PlayBuffer
 *
 * Purpose:	Play a finished transmission through the default output
 *		device, blocking until done.
 *
 *------------------------------------------------------------------*/

func PlayBuffer(samples []float64, sampleRate int) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing audio: %w", err)
	}
	defer portaudio.Terminate()

	var out = make([]float32, deviceFrames)
	var stream, err = portaudio.OpenDefaultStream(0, 1, float64(sampleRate), len(out), &out)
	if err != nil {
		return fmt.Errorf("opening output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("starting output stream: %w", err)
	}
	defer stream.Stop()

	for start := 0; start < len(samples); start += len(out) {
		for i := range out {
			if start+i < len(samples) {
				out[i] = float32(samples[start+i])
			} else {
				out[i] = 0
			}
		}

		if err := stream.Write(); err != nil && err != portaudio.OutputUnderflowed {
			return fmt.Errorf("writing to output stream: %w", err)
		}
	}

	return nil
}

/*------------------------------------------------------------------
 *
 * Function:	RecordBuffer
 *
 * Purpose:	Capture a fixed duration from the default input device.
 *
 * Inputs:	seconds - how long to record.
 *
 * Returns:	Captured samples in [-1, 1].
 *
 *------------------------------------------------------------------*/

func RecordBuffer(seconds float64, sampleRate int) ([]float64, error) {
	if seconds <= 0 {
		return nil, fmt.Errorf("record duration must be positive, got %g", seconds)
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing audio: %w", err)
	}
	defer portaudio.Terminate()

	var in = make([]float32, deviceFrames)
	var stream, err = portaudio.OpenDefaultStream(1, 0, float64(sampleRate), len(in), &in)
	if err != nil {
		return nil, fmt.Errorf("opening input stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("starting input stream: %w", err)
	}
	defer stream.Stop()

	var want = int(seconds * float64(sampleRate))
	var samples = make([]float64, 0, want)

	for len(samples) < want {
		if err := stream.Read(); err != nil && err != portaudio.InputOverflowed {
			return nil, fmt.Errorf("reading from input stream: %w", err)
		}

		for _, s := range in {
			if len(samples) == want {
				break
			}
			samples = append(samples, float64(s))
		}
	}

	return samples, nil
}
