/* Generate transmission audio from text messages */
package main

import (
	gibberlink "github.com/Aerocodex777/gibberlink/src"
)

func main() {
	gibberlink.GenMessagesMain()
}
