package gibberlink

/*------------------------------------------------------------------
 *
 * Purpose:	Shared logger for the command line tools and the decode
 *		debug traces.
 *
 * Description:	Info level narrates what the tools are doing; Debug adds
 *		per-window decode detail.  Core transforms never log
 *		above Debug, so library callers see nothing unless they
 *		ask for it.
 *
 *------------------------------------------------------------------*/

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "gibberlink",
})

// SetVerbose raises the log level to Debug, exposing per-window decode
// traces and marker alignment detail.
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}

// Logger exposes the package logger so embedding programs can restyle
// or silence it.
func Logger() *log.Logger {
	return logger
}
