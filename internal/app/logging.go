package app

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log formats accepted by NewLogger.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// NewLogger builds the application logger. An empty level means warn;
// an empty format means text.
func NewLogger(level, format string, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)

	lvl := logrus.WarnLevel
	if level != "" {
		var err error
		if lvl, err = logrus.ParseLevel(level); err != nil {
			return nil, err
		}
	}
	log.SetLevel(lvl)

	switch format {
	case "", LogFormatText:
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	case LogFormatJSON:
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return log, nil
}

// OpenLogFile opens path for appending log lines.
func OpenLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
