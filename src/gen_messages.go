package gibberlink

/*------------------------------------------------------------------
 *
 * Purpose:	Command line encoder: messages in, WAV file out.
 *
 * Description:	Messages come from the command line or, with none given,
 *		one per line on stdin.  A single message becomes a single
 *		transmission; conversation mode joins them all into one
 *		session recording.  Useful for generating test material
 *		for the decoder without touching a sound device.
 *
 *------------------------------------------------------------------*/

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

func GenMessagesMain() {
	var outputFile = pflag.StringP("output-file", "o", "", "Output .wav file.  Empty for a timestamped name.")
	var packet = pflag.BoolP("packet", "p", false, "Wrap the message in the checksummed packet envelope.")
	var conversation = pflag.BoolP("conversation", "C", false, "Encode all messages as one conversation session.")
	var configFile = pflag.StringP("config", "c", "", "Protocol profile (YAML).  Defaults are built in.")
	var verbose = pflag.BoolP("verbose", "v", false, "Debug logging.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Encode messages as an audio transmission.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [message ...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "With no messages on the command line, one message is read per stdin line.\n")
		fmt.Fprintf(os.Stderr, "\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(1)
	}

	SetVerbose(*verbose)

	var modem, err = newModemFromFlags(*configFile)
	if err != nil {
		logger.Fatal("configuration", "err", err)
	}

	var messages = pflag.Args()
	if len(messages) == 0 {
		var in = bufio.NewScanner(os.Stdin)
		for in.Scan() {
			if line := in.Text(); line != "" {
				messages = append(messages, line)
			}
		}
	}
	if len(messages) == 0 {
		fmt.Fprintf(os.Stderr, "ERROR: No messages to encode.\n")
		pflag.Usage()
		os.Exit(1)
	}
	if len(messages) > 1 && !*conversation {
		fmt.Fprintf(os.Stderr, "ERROR: Multiple messages need --conversation.\n")
		pflag.Usage()
		os.Exit(1)
	}
	if *packet && *conversation {
		fmt.Fprintf(os.Stderr, "ERROR: --packet and --conversation are mutually exclusive.\n")
		pflag.Usage()
		os.Exit(1)
	}

	var audio []float64
	var encodeErr error
	switch {
	case *conversation:
		audio, encodeErr = modem.ModulateConversation(messages)
	case *packet:
		audio, encodeErr = modem.ModulatePacket(messages[0])
	default:
		audio, encodeErr = modem.Modulate(messages[0])
	}
	if encodeErr != nil {
		logger.Fatal("encoding", "err", encodeErr)
	}

	var path = *outputFile
	if path == "" {
		path = TimestampedWAVName("gibberlink")
	}

	if err := WriteWAVFile(path, audio, modem.Config().SampleRate); err != nil {
		logger.Fatal("writing", "err", err)
	}

	logger.Info("wrote transmission",
		"path", path,
		"messages", len(messages),
		"seconds", fmt.Sprintf("%.2f", float64(len(audio))/float64(modem.Config().SampleRate)))
}
