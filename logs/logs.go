// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package logs is the shardpool logging backend: one btclog.Logger per
// subsystem tag, all writing through a shared rotator. Grounded on the
// teacher's logger.go, trimmed to the subsystems this module actually has
// (MEMP for the pool core, CLST for cluster construction, DRVR for the
// background drivers) instead of a whole node's worth of tags.
package logs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
)

// SubsystemTags names the loggers this module exposes.
var SubsystemTags = struct {
	MEMP, CLST, DRVR string
}{
	MEMP: "MEMP",
	CLST: "CLST",
	DRVR: "DRVR",
}

type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	if logRotator != nil {
		logRotator.Write(p)
	}
	return os.Stdout.Write(p)
}

var (
	logRotator     *rotator.Rotator
	backendLog     = btclog.NewBackend(logWriter{})
	subsystemLoggers = map[string]btclog.Logger{
		SubsystemTags.MEMP: backendLog.Logger(SubsystemTags.MEMP),
		SubsystemTags.CLST: backendLog.Logger(SubsystemTags.CLST),
		SubsystemTags.DRVR: backendLog.Logger(SubsystemTags.DRVR),
	}
)

// InitLogRotator initializes the rotating log file at logFile. Must be
// called before any logger writes if file output is desired; if never
// called, loggers still write to stdout.
func InitLogRotator(logFile string) {
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0700); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory: %s\n", err)
			return
		}
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log rotator: %s\n", err)
		return
	}
	logRotator = r
}

// SetLogLevel sets the level for one subsystem. Unknown subsystems are
// ignored.
func SetLogLevel(subsystemTag string, level btclog.Level) {
	if logger, ok := subsystemLoggers[subsystemTag]; ok {
		logger.SetLevel(level)
	}
}

// Get returns the logger for tag, creating nothing: tags are fixed at
// package init.
func Get(tag string) btclog.Logger {
	return subsystemLoggers[tag]
}
