package gibberlink

/*------------------------------------------------------------------
 *
 * Purpose:	Failure conditions reported by the encode and decode
 *		paths.  Callers match with errors.Is; call sites wrap
 *		these with position or value context.
 *
 *------------------------------------------------------------------*/

import "errors"

var (
	// ErrUnsupportedCharacter - text contains a rune whose code point does not fit in 8 bits.
	ErrUnsupportedCharacter = errors.New("character code point above 255")

	// ErrSyncMismatch - decoded bits do not begin with the sync header.
	ErrSyncMismatch = errors.New("sync header mismatch")

	// ErrStartMarkerNotFound - no start-marker tone located in the audio.
	ErrStartMarkerNotFound = errors.New("start marker not found")

	// ErrEndMarkerNotFound - audio exhausted before an end-marker tone.
	ErrEndMarkerNotFound = errors.New("end marker not found")

	// ErrUnrecognizedSymbol - a frequency estimate is outside tolerance of every constellation entry.
	ErrUnrecognizedSymbol = errors.New("unrecognized symbol frequency")

	// ErrChecksum - packet envelope checksum does not match its data.
	ErrChecksum = errors.New("packet checksum mismatch")
)
