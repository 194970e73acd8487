package gibberlink

/*------------------------------------------------------------------
 *
 * Purpose:	Interactive shell: the menu-driven front end for sending,
 *		recording, and decoding transmissions.
 *
 * Description:	Orchestration only.  Every protocol operation goes
 *		through the Modem entry points; this layer just moves
 *		buffers between them, the sound device, and WAV files.
 *
 *------------------------------------------------------------------*/

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

func InteractiveMain() {
	var configFile = pflag.StringP("config", "c", "", "Protocol profile (YAML).  Defaults are built in.")
	var verbose = pflag.BoolP("verbose", "v", false, "Debug logging, including per-window decode traces.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Interactive acoustic data link shell.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
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

	fmt.Printf("Acoustic data link at %d Hz, tones %g-%g Hz.\n",
		modem.Config().SampleRate,
		modem.Config().BaseFrequency,
		modem.Config().BaseFrequency+float64(NumSymbols-1)*modem.Config().FrequencyStep)

	var in = bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("\n")
		fmt.Printf("  1. Send a message\n")
		fmt.Printf("  2. Send a conversation\n")
		fmt.Printf("  3. Send a data packet\n")
		fmt.Printf("  4. Speed demonstration\n")
		fmt.Printf("  5. Decode a WAV file\n")
		fmt.Printf("  6. Record and decode\n")
		fmt.Printf("  7. Quit\n")

		switch promptLine(in, "Select option (1-7): ") {
		case "1":
			sendMessage(modem, in)
		case "2":
			sendConversation(modem, in)
		case "3":
			sendDataPacket(modem, in)
		case "4":
			speedDemo(modem)
		case "5":
			decodeFile(modem, in)
		case "6":
			recordAndDecode(modem, in)
		case "7", "q", "":
			return
		default:
			fmt.Printf("Invalid option.\n")
		}
	}
}

// newModemFromFlags builds the Modem from defaults or a profile file.
func newModemFromFlags(configFile string) (*Modem, error) {
	var config = DefaultConfig()

	if configFile != "" {
		var err error
		config, err = LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
	}

	return NewModem(config)
}

func promptLine(in *bufio.Scanner, label string) string {
	fmt.Printf("%s", label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

// playAndOfferSave plays a finished buffer and optionally writes it out.
func playAndOfferSave(modem *Modem, in *bufio.Scanner, audio []float64, prefix string) {
	var rate = modem.Config().SampleRate

	logger.Info("playing", "seconds", fmt.Sprintf("%.2f", float64(len(audio))/float64(rate)))
	if err := PlayBuffer(audio, rate); err != nil {
		logger.Error("playback", "err", err)
	}

	if !strings.EqualFold(promptLine(in, "Save audio? (y/n): "), "y") {
		return
	}

	var path = promptLine(in, "Filename (empty for timestamped): ")
	if path == "" {
		path = TimestampedWAVName(prefix)
	} else if !strings.HasSuffix(path, ".wav") {
		path += ".wav"
	}

	if err := WriteWAVFile(path, audio, rate); err != nil {
		logger.Error("saving", "err", err)
		return
	}
	logger.Info("saved", "path", path)
}

func sendMessage(modem *Modem, in *bufio.Scanner) {
	var text = promptLine(in, "Message: ")
	if text == "" {
		return
	}

	var audio, err = modem.Modulate(text)
	if err != nil {
		logger.Error("encoding", "err", err)
		return
	}

	logger.Info("encoded", "chars", len(text), "samples", len(audio))
	playAndOfferSave(modem, in, audio, "gibberlink-message")
}

func sendConversation(modem *Modem, in *bufio.Scanner) {
	fmt.Printf("Enter messages, empty line to finish.\n")

	var messages []string
	for {
		var msg = promptLine(in, fmt.Sprintf("Message %d: ", len(messages)+1))
		if msg == "" {
			break
		}
		messages = append(messages, msg)
	}
	if len(messages) == 0 {
		return
	}

	var audio, err = modem.ModulateConversation(messages)
	if err != nil {
		logger.Error("encoding conversation", "err", err)
		return
	}

	logger.Info("encoded conversation", "messages", len(messages), "samples", len(audio))
	playAndOfferSave(modem, in, audio, "gibberlink-conversation")
}

func sendDataPacket(modem *Modem, in *bufio.Scanner) {
	var data = promptLine(in, "Payload (empty for a sample): ")
	if data == "" {
		data = `{"node":"gl-01","seq":42,"status":"ok","uptime":3600}`
	}

	var audio, err = modem.ModulatePacket(data)
	if err != nil {
		logger.Error("encoding packet", "err", err)
		return
	}

	logger.Info("encoded packet", "bytes", len(data), "samples", len(audio))
	playAndOfferSave(modem, in, audio, "gibberlink-packet")
}

// speedDemo contrasts spoken-word pacing with the same sentence over the
// link.
func speedDemo(modem *Modem) {
	var message = "Hello, how are you processing today?"

	fmt.Printf("Spoken at human pace:\n")
	for _, word := range strings.Fields(message) {
		fmt.Printf("  %s...\n", word)
		time.Sleep(400 * time.Millisecond)
	}

	var audio, err = modem.Modulate(message)
	if err != nil {
		logger.Error("encoding", "err", err)
		return
	}

	fmt.Printf("Same message over the link (%.2fs):\n", float64(len(audio))/float64(modem.Config().SampleRate))
	if err := PlayBuffer(audio, modem.Config().SampleRate); err != nil {
		logger.Error("playback", "err", err)
	}
}

// modemForRate rebuilds the modem when a file's sample rate differs from
// the configured one.
func modemForRate(modem *Modem, rate int) (*Modem, error) {
	if rate == modem.Config().SampleRate {
		return modem, nil
	}

	logger.Info("adapting to sample rate", "rate", rate)

	var config = modem.Config()
	config.SampleRate = rate
	return NewModem(config)
}

func decodeFile(modem *Modem, in *bufio.Scanner) {
	var path = promptLine(in, "WAV file: ")
	if path == "" {
		return
	}

	var samples, rate, err = ReadWAVFile(path)
	if err != nil {
		logger.Error("reading", "err", err)
		return
	}

	var decoder, modemErr = modemForRate(modem, rate)
	if modemErr != nil {
		logger.Error("adapting", "err", modemErr)
		return
	}

	if strings.EqualFold(promptLine(in, "Packet envelope? (y/n): "), "y") {
		var packet, decodeErr = decoder.DemodulatePacket(samples)
		if decodeErr != nil {
			logger.Error("decoding", "err", decodeErr)
			return
		}
		fmt.Printf("timestamp: %d\nsize: %d\nchecksum: %s\ndata: %s\n",
			packet.Timestamp, packet.Size, packet.Checksum, packet.Data)
		return
	}

	var messages, decodeErr = decoder.DemodulateConversation(samples)
	if decodeErr != nil {
		logger.Error("decoding", "err", decodeErr)
		return
	}
	for _, msg := range messages {
		fmt.Printf("%s\n", msg)
	}
}

func recordAndDecode(modem *Modem, in *bufio.Scanner) {
	var seconds = 5.0
	if s := promptLine(in, "Seconds to record (default 5): "); s != "" {
		var parsed, err = strconv.ParseFloat(s, 64)
		if err != nil || parsed <= 0 {
			fmt.Printf("Invalid duration.\n")
			return
		}
		seconds = parsed
	}

	logger.Info("recording", "seconds", seconds)

	var samples, err = RecordBuffer(seconds, modem.Config().SampleRate)
	if err != nil {
		logger.Error("recording", "err", err)
		return
	}

	var text, decodeErr = modem.Demodulate(samples)
	if decodeErr != nil {
		logger.Error("decoding", "err", decodeErr)
		return
	}
	fmt.Printf("%s\n", text)
}
