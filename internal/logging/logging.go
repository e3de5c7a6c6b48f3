// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the logrus logger shared by the CLI and the server.
// Diagnostics go to stderr; stdout carries only lookup results.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultLevel keeps the primary command silent unless something is wrong.
const DefaultLevel = "warn"

// New returns a text-formatted logger at level writing to w. An empty level
// means DefaultLevel; a nil writer means stderr.
func New(level string, w io.Writer) (*logrus.Logger, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if w == nil {
		w = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	return log, nil
}

// Track logs msg with its duration when the returned func is called.
// Calls slower than slow are logged at warn level.
func Track(entry *logrus.Entry, msg string, slow time.Duration) func() {
	start := time.Now()
	return func() {
		dur := time.Since(start)
		e := entry.WithField("duration", dur.String())
		if slow > 0 && dur > slow {
			e.Warnf("%s completed (SLOW)", msg)
			return
		}
		e.Debugf("%s completed", msg)
	}
}
