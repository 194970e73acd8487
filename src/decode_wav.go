package gibberlink

/*------------------------------------------------------------------
 *
 * Purpose:	Command line decoder: WAV files in, recovered messages
 *		on stdout.
 *
 * Description:	The counterpart to the encoder tool.  Exit status is
 *		nonzero when any file fails to decode, so scripted
 *		round-trip checks can assert on it.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

func DecodeWAVMain() {
	var packet = pflag.BoolP("packet", "p", false, "Parse the checksummed packet envelope; print it as JSON.")
	var maxSymbols = pflag.IntP("max-symbols", "M", 0, "Symbol budget per transmission.  0 keeps the profile value.")
	var configFile = pflag.StringP("config", "c", "", "Protocol profile (YAML).  Defaults are built in.")
	var verbose = pflag.BoolP("verbose", "v", false, "Debug logging, including per-window decode traces.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Decode audio transmissions from WAV files.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] file.wav [...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help || len(pflag.Args()) == 0 {
		pflag.Usage()
		os.Exit(1)
	}

	SetVerbose(*verbose)

	var modem, err = newModemFromFlags(*configFile)
	if err != nil {
		logger.Fatal("configuration", "err", err)
	}

	if *maxSymbols > 0 {
		var config = modem.Config()
		config.MaxSymbols = *maxSymbols
		modem, err = NewModem(config)
		if err != nil {
			logger.Fatal("configuration", "err", err)
		}
	}

	var failures = 0
	for _, path := range pflag.Args() {
		if err := decodeOneFile(modem, path, *packet); err != nil {
			logger.Error("decoding", "path", path, "err", err)
			failures++
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}

func decodeOneFile(modem *Modem, path string, asPacket bool) error {
	var samples, rate, err = ReadWAVFile(path)
	if err != nil {
		return err
	}

	var decoder, modemErr = modemForRate(modem, rate)
	if modemErr != nil {
		return modemErr
	}

	if asPacket {
		var pkt, decodeErr = decoder.DemodulatePacket(samples)
		if decodeErr != nil {
			return decodeErr
		}

		var out, marshalErr = json.Marshal(pkt)
		if marshalErr != nil {
			return marshalErr
		}
		fmt.Printf("%s\n", out)
		return nil
	}

	var messages, decodeErr = decoder.DemodulateConversation(samples)
	if decodeErr != nil {
		return decodeErr
	}
	for _, msg := range messages {
		fmt.Printf("%s\n", msg)
	}
	return nil
}
