// Package logger builds the slog loggers used by meshctl.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logPrefix     = "meshctl-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures a logger.
type Options struct {
	Level  string    // debug, info, warn, error. Default: warn
	Format string    // text or json. Default: text
	Writer io.Writer // destination when LogDir is empty. Default: os.Stderr

	// LogDir, when set, sends JSON records to a dated file in that directory
	// instead of Writer. Files older than 30 days are removed.
	LogDir string
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New builds a logger from opts. The returned closer releases the log file,
// if any; it is never nil.
func New(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}
	noop := func() error { return nil }

	if opts.LogDir != "" {
		f, err := openLogFile(opts.LogDir)
		if err != nil {
			return nil, nil, err
		}
		return slog.New(slog.NewJSONHandler(f, hopts)), f.Close, nil
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	switch strings.ToLower(opts.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, hopts)), noop, nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), noop, nil
	default:
		return nil, nil, fmt.Errorf("logger: unknown format %q", opts.Format)
	}
}

// ParseLevel maps a level name to a slog.Level. The empty string is warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logger: unknown level %q", s)
	}
}

func openLogFile(logDir string) (*os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, err
	}

	// Best-effort, errors ignored.
	cleanOldLogs(logDir, time.Now())

	filename := filepath.Join(logDir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	return os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// cleanOldLogs removes log files older than retentionDays.
func cleanOldLogs(logDir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}

		// meshctl-2024-01-05.log
		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		if logDate.Before(cutoff) {
			os.Remove(filepath.Join(logDir, name))
		}
	}
}
