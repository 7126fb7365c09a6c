// Package logging provides the one shared logger used across the
// reconstructor pipeline: a single logrus instance, fields attached per
// call site instead of ad hoc fmt.Printf.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a text-formatted logger writing to stderr: method, params, and
// remote node messages all go through it rather than fmt.Printf.
func New(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
