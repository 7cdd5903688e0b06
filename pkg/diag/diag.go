// Package diag defines the diagnostics collaborator injected into control
// bindings. The binding layer has no error channel back to the native control,
// so every dropped delivery ends in one of these calls.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Logger receives diagnostics from the binding layer. Key-value pairs follow
// the msg argument as alternating string keys and values.
type Logger interface {
	// Debug records a diagnostic trace, such as a raw event payload.
	Debug(msg string, kv ...any)
	// Warn records a dropped delivery that is part of normal operation.
	Warn(msg string, kv ...any)
	// Error records a failed delivery.
	Error(msg string, err error, kv ...any)
}

// Format selects the log output encoding.
type Format string

const (
	// FormatAuto uses console output on terminals and JSON otherwise.
	FormatAuto Format = "auto"
	// FormatConsole writes human-readable lines.
	FormatConsole Format = "console"
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
)

// ZerologLogger adapts a zerolog.Logger to Logger.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerolog wraps an existing zerolog logger.
func NewZerolog(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: l}
}

// New builds a zerolog-backed Logger writing to w at the named level
// ("debug", "info", "warn", "error"; empty means "info").
func New(w io.Writer, level string, format Format) (*ZerologLogger, error) {
	lvl := zerolog.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	switch format {
	case "", FormatAuto:
		if isTerminal(w) {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
		}
	case FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !isTerminal(w)}
	case FormatJSON:
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	return NewZerolog(zerolog.New(w).Level(lvl).With().Timestamp().Logger()), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Debug implements Logger.
func (z *ZerologLogger) Debug(msg string, kv ...any) {
	z.log.Debug().Fields(kv).Msg(msg)
}

// Warn implements Logger.
func (z *ZerologLogger) Warn(msg string, kv ...any) {
	z.log.Warn().Fields(kv).Msg(msg)
}

// Error implements Logger.
func (z *ZerologLogger) Error(msg string, err error, kv ...any) {
	z.log.Error().Err(err).Fields(kv).Msg(msg)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)        {}
func (nopLogger) Warn(string, ...any)         {}
func (nopLogger) Error(string, error, ...any) {}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

// Compile-time interface satisfaction checks.
var (
	_ Logger = (*ZerologLogger)(nil)
	_ Logger = nopLogger{}
)
