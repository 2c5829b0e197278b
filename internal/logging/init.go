package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFileName is the log file used by the file sink when no path is configured.
const DefaultFileName = "urlcopy.log"

type InitOptions struct {
	App     string
	Version string
	Mode    Mode
	// LogDir holds DefaultFileName when the file sink has no explicit path.
	LogDir string
}

// Init builds the process logger, installs it as the slog default, and
// returns it together with a close function for the underlying writer.
func Init(cfg Config, opts InitOptions) (*slog.Logger, func() error, error) {
	if opts.App == "" {
		opts.App = "urlcopy"
	}
	if opts.Mode == 0 {
		opts.Mode = ModeCLI
	}

	cfg = Merge(DefaultConfig(opts.Mode), cfg).WithEnv()
	normalized, err := cfg.Normalize()
	if err != nil {
		return nil, nil, err
	}

	writer, closeFn, err := resolveWriter(normalized, opts)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(writer, normalized, opts)
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

func newLogger(w io.Writer, cfg Config, opts InitOptions) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Format != nil && Format(*cfg.Format) == FormatJSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler).With(
		slog.String("app", opts.App),
		slog.String("version", opts.Version),
		slog.String("mode", opts.Mode.String()),
	)
}

func parseLevel(value *string) slog.Leveler {
	if value == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(strings.TrimSpace(*value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolveWriter(cfg Config, opts InitOptions) (io.Writer, func() error, error) {
	sink := SinkStderr
	if cfg.Sink != nil {
		sink = Sink(*cfg.Sink)
	}
	noop := func() error { return nil }

	switch sink {
	case SinkNone:
		return io.Discard, noop, nil
	case SinkStderr:
		return os.Stderr, noop, nil
	case SinkFile:
		path := ""
		if cfg.File != nil {
			path = *cfg.File
		}
		if path == "" {
			if opts.LogDir == "" {
				return nil, nil, fmt.Errorf("logging: file sink needs a log file or log dir")
			}
			path = filepath.Join(opts.LogDir, DefaultFileName)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    derefInt(cfg.MaxSizeMB, 10),
			MaxBackups: derefInt(cfg.MaxBackups, 3),
			MaxAge:     derefInt(cfg.MaxAgeDays, 14),
			Compress:   derefBool(cfg.Compress, true),
		}
		return rot, rot.Close, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %q", sink)
	}
}

func derefInt(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func derefBool(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
