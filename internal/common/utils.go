package common

import (
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"
)

const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// ErrInvalidLogFormat is returned by NewLogger for an unknown --log-format value.
var ErrInvalidLogFormat = fmt.Errorf("invalid log format (use %s or %s)", LogFormatJSON, LogFormatText)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// LogLevel maps the --quiet and --verbose flags to a slog level. Quiet wins.
func LogLevel(quiet, verbose bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelError
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a slog.Logger writing to w in the given format.
func NewLogger(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "", LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case LogFormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogFormat, format)
	}
}

// LoggerFromContext builds the logger for a command from the shared logging flags,
// writing to the app's error writer.
func LoggerFromContext(c *cli.Context) (*slog.Logger, error) {
	return NewLogger(c.App.ErrWriter, c.String("log-format"), LogLevel(c.Bool("quiet"), c.Bool("verbose")))
}
