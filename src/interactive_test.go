package gibberlink

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModemForRate(t *testing.T) {
	var modem = newTestModem(t)

	// Matching rate keeps the existing modem.
	var same, err = modemForRate(modem, modem.Config().SampleRate)
	require.NoError(t, err)
	assert.Same(t, modem, same)

	// A different rate rebuilds around the file's rate.
	var adapted, adaptErr = modemForRate(modem, 48000)
	require.NoError(t, adaptErr)
	assert.Equal(t, 48000, adapted.Config().SampleRate)
	assert.Equal(t, 44100, modem.Config().SampleRate)

	// A rate the constellation cannot fit under is refused.
	var _, badErr = modemForRate(modem, 4000)
	assert.Error(t, badErr)
}

func TestNewModemFromFlags(t *testing.T) {
	var modem, err = newModemFromFlags("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), modem.Config())

	_, err = newModemFromFlags(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
