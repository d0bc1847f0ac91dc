// Package obs builds the process logger.
package obs

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"taskd/internal/common/fsutil"
	"taskd/internal/config"
)

// ParseLevel maps a config level string to a zerolog level. Unknown values
// fall back to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger builds a zerolog.Logger from c. Output goes to stderr, or to a
// rotated file when c.File is set. The returned closer releases the file.
func NewLogger(c config.LogConfig) (zerolog.Logger, io.Closer) {
	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if file, err := fsutil.ExpandHome(c.File); err == nil && file != "" {
		if dir := filepath.Dir(file); dir != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
		lj := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    orDefault(c.MaxSizeMB, 100),
			MaxBackups: orDefault(c.MaxBackups, 3),
			MaxAge:     orDefault(c.MaxAgeDays, 28),
			Compress:   c.Compress,
		}
		out, closer = lj, lj
	}
	if strings.ToLower(c.Format) != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: c.File != ""}
	}
	l := zerolog.New(out).Level(ParseLevel(c.Level)).With().Timestamp().Logger()
	return l, closer
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
