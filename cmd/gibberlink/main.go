/* Interactive acoustic messaging console */
package main

import (
	gibberlink "github.com/Aerocodex777/gibberlink/src"
)

func main() {
	gibberlink.InteractiveMain()
}
