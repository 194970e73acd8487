/* Decode transmission audio from WAV files */
package main

import (
	gibberlink "github.com/Aerocodex777/gibberlink/src"
)

func main() {
	gibberlink.DecodeWAVMain()
}
