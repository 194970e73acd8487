package gibberlink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pflag (not unreasonably) assumes it only ever gets called once. But the
// encode and decode tools pair naturally as "run this, then run that".
// Driving them from Go tests means resetting pflag's global state between
// invocations.
func setupPflag(args []string) {
	os.Args = args
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
}

func Test_GenThenDecode(t *testing.T) {
	var tmpdir = t.TempDir()
	var file = filepath.Join(tmpdir, "roundtrip.wav")

	setupPflag([]string{"gibberlink-gen", "-o", file, "Hello from the scripts"})
	GenMessagesMain()

	require.FileExists(t, file)

	setupPflag([]string{"gibberlink-rec", file})
	DecodeWAVMain()

	// The decoder tool exits nonzero on failure, so reaching this point
	// means the file parsed.  Confirm the content through the library too.
	var samples, rate, err = ReadWAVFile(file)
	require.NoError(t, err)

	var modem, modemErr = NewModem(DefaultConfig())
	require.NoError(t, modemErr)
	require.Equal(t, modem.Config().SampleRate, rate)

	var text, decodeErr = modem.Demodulate(samples)
	require.NoError(t, decodeErr)
	assert.Equal(t, "Hello from the scripts", text)
}

func Test_GenThenDecodePacket(t *testing.T) {
	var tmpdir = t.TempDir()
	var file = filepath.Join(tmpdir, "packet.wav")

	setupPflag([]string{"gibberlink-gen", "-p", "-o", file, `{"k":"v"}`})
	GenMessagesMain()

	setupPflag([]string{"gibberlink-rec", "-p", file})
	DecodeWAVMain()

	var samples, _, err = ReadWAVFile(file)
	require.NoError(t, err)

	var modem, modemErr = NewModem(DefaultConfig())
	require.NoError(t, modemErr)

	var packet, decodeErr = modem.DemodulatePacket(samples)
	require.NoError(t, decodeErr)
	assert.Equal(t, `{"k":"v"}`, packet.Data)
}

func Test_GenConversationThenDecode(t *testing.T) {
	var tmpdir = t.TempDir()
	var file = filepath.Join(tmpdir, "session.wav")

	setupPflag([]string{"gibberlink-gen", "-C", "-o", file, "first", "second"})
	GenMessagesMain()

	setupPflag([]string{"gibberlink-rec", file})
	DecodeWAVMain()

	var samples, _, err = ReadWAVFile(file)
	require.NoError(t, err)

	var modem, modemErr = NewModem(DefaultConfig())
	require.NoError(t, modemErr)

	var messages, decodeErr = modem.DemodulateConversation(samples)
	require.NoError(t, decodeErr)
	assert.Equal(t, []string{"first", "second"}, messages)
}
