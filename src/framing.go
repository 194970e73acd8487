package gibberlink

/*------------------------------------------------------------------
 *
 * Purpose:	Frame building and parsing: the on-air bit layout.
 *
 * Description:	A frame is the 8-bit sync header, the payload bits, and
 *		zero padding up to a 4-bit boundary so the modulator can
 *		emit whole symbols.  Raw text frames carry no length
 *		field; the receiver relies on the end marker for framing
 *		and on the bit codec's trailing-group discard to absorb
 *		the padding.
 *
 *		Structured payloads ride inside a JSON envelope carrying
 *		a timestamp, the payload size, and the first 8 hex digits
 *		of the payload's MD5.  The checksum covers the data string
 *		alone, never the whole envelope.
 *
 *------------------------------------------------------------------*/

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Packet is the structured-payload envelope.  Field order matters: the
// serialized form is part of the wire format.
type Packet struct {
	Timestamp int64  `json:"timestamp"` // unix seconds at send time
	Size      int    `json:"size"`      // len(Data)
	Checksum  string `json:"checksum"`  // first 8 hex digits of md5(Data)
	Data      string `json:"data"`
}

func NewPacket(data string) Packet {
	return Packet{
		Timestamp: time.Now().Unix(),
		Size:      len(data),
		Checksum:  checksum(data),
		Data:      data,
	}
}

// Verify recomputes the checksum over Data and compares it to the stored one.
func (p Packet) Verify() error {
	var want = checksum(p.Data)
	if p.Checksum != want {
		return fmt.Errorf("stored %s, computed %s: %w", p.Checksum, want, ErrChecksum)
	}
	return nil
}

func checksum(data string) string {
	var sum = md5.Sum([]byte(data))
	return hex.EncodeToString(sum[:])[:8]
}

/*------------------------------------------------------------------
 *
 * Function:	Frame
 *
 * Purpose:	Build the transmit bit sequence for a text message.
 *
 * Returns:	SyncHeader + text bits + zero padding; length is always
 *		a multiple of 4.
 *
 *------------------------------------------------------------------*/

func Frame(text string) (string, error) {
	var payload, err = TextToBits(text)
	if err != nil {
		return "", err
	}

	var bits = SyncHeader + payload
	if pad := len(bits) % SymbolBits; pad != 0 {
		bits += strings.Repeat("0", SymbolBits-pad)
	}

	return bits, nil
}

func Deframe(bits string) (string, error) {
	if len(bits) < len(SyncHeader) || bits[:len(SyncHeader)] != SyncHeader {
		return "", fmt.Errorf("leading bits %.8q: %w", bits, ErrSyncMismatch)
	}

	// Up to 3 padding bits remain after the payload; BitsToText drops them.
	return BitsToText(bits[len(SyncHeader):])
}

// FramePacket wraps an already-serialized payload string in the envelope
// and frames the envelope like any text message.
func FramePacket(data string) (string, error) {
	var envelope, err = json.Marshal(NewPacket(data))
	if err != nil {
		return "", fmt.Errorf("encoding packet envelope: %w", err)
	}
	return Frame(string(envelope))
}

func DeframePacket(bits string) (Packet, error) {
	var packet Packet

	var text, err = Deframe(bits)
	if err != nil {
		return packet, err
	}

	if err := json.Unmarshal([]byte(text), &packet); err != nil {
		return packet, fmt.Errorf("parsing packet envelope: %w", err)
	}

	if err := packet.Verify(); err != nil {
		return packet, err
	}

	return packet, nil
}
