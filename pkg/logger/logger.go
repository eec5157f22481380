package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Init with logrus
// defaults so packages and tests can log without setup.
var Log = logrus.New()

// Init configures the global logger. It should be called once from main.
//
// level is a logrus level name ("debug", "info", ...); unknown values fall
// back to info. format "json" selects the JSON formatter, anything else the
// text formatter. A nil out keeps stdout.
func Init(level, format string, out io.Writer) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			// Colors only make sense when writing to a terminal.
			ForceColors: out == nil,
		})
	}

	if out == nil {
		out = os.Stdout
	}
	Log.SetOutput(out)
}
