// Package logging builds the component loggers. They are the same gommon
// loggers echo uses, so request logs and component logs share one format.
package logging

import (
	"io"
	"strings"
	"sync"

	"github.com/labstack/gommon/log"
)

var (
	mu     sync.RWMutex
	level  = log.INFO
	output io.Writer
)

// Configure sets the level and output used by loggers created afterwards.
// A nil writer keeps the gommon default (stdout).
func Configure(lvl string, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(lvl)
	output = w
}

// New returns a logger tagged with prefix.
func New(prefix string) *log.Logger {
	mu.RLock()
	defer mu.RUnlock()

	l := log.New(prefix)
	l.SetLevel(level)
	if output != nil {
		l.SetOutput(output)
	}
	return l
}

// ParseLevel maps a config level name to a gommon level. Unknown names mean info.
func ParseLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off", "none":
		return log.OFF
	default:
		return log.INFO
	}
}
