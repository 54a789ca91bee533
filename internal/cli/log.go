// Package cli implements the lasercard command-line interface.
//
// # Commands
//
//   - generate: render the card to SVG, PDF, PNG, DXF or JSON
//   - pins: print the dovetail plan as a table
//   - config: show the effective configuration or write a starter file
//   - completion: shell completion scripts
//
// Every command that resolves a configuration takes -c/--config plus flags
// overriding single parameters (--width, --pins, --angle, ...). Flags only
// take effect when set, so a config file value is never silently replaced
// by a flag default.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// records each pipeline stage and the computed geometry.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Generated card (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
