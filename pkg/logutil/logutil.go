// Package logutil provides logging utilities.
package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

var (
	mutex   sync.Mutex
	out     io.Writer = io.Discard
	outFile *os.File
	loggers []*log.Logger
)

// GetLogger gets a logger with the given prefix. Loggers share a common
// output, which is initially io.Discard until set by SetOutput or
// SetOutputFile.
func GetLogger(prefix string) *log.Logger {
	mutex.Lock()
	defer mutex.Unlock()
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger to
// the given writer.
func SetOutput(newout io.Writer) {
	mutex.Lock()
	defer mutex.Unlock()
	if outFile != nil {
		outFile.Close()
		outFile = nil
	}
	out = newout
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger
// to the named file, creating it if needed. An empty name reverts the output
// to io.Discard.
func SetOutputFile(fname string) error {
	mutex.Lock()
	defer mutex.Unlock()
	if outFile != nil {
		outFile.Close()
		outFile = nil
	}
	if fname == "" {
		out = io.Discard
	} else {
		file, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %q: %w", fname, err)
		}
		outFile = file
		out = file
	}
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
	return nil
}
