package onestore

import (
	"io"

	"github.com/sirupsen/logrus"
)

// log is the package logger. Decoding records structural defects as
// diagnostics on the document; the logger only narrates progress and skipped
// structures, and is silent by default.
var log = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// SetLogger replaces the package logger, e.g. with an application-configured
// logrus instance.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		log = l
	}
}
