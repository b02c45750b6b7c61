package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/angeloszaimis/oms-envcheck/internal/environment"
	"github.com/angeloszaimis/oms-envcheck/internal/settings"
)

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.LevelDebug - 4

const (
	DefaultDirectory = "log"
	DefaultFilename  = "remote_server.log"
)

func New(w io.Writer, lvl string, addSource bool, env environment.Environment) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(lvl),
		AddSource: addSource,
	}

	var handler slog.Handler
	if env == environment.Production {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("environment", env.String()),
	)
}

// FromSettings builds a logger for the resolved logging section. Without a
// section it logs to console at info. Log files are created on fs, or on the
// OS filesystem when fs is nil. The returned closer releases the log file,
// if one was opened.
func FromSettings(fs afero.Fs, cfg *settings.LoggingSettings, env environment.Environment, console io.Writer) (*slog.Logger, io.Closer, error) {
	if cfg == nil {
		return New(console, string(settings.LevelInfo), false, env), nopCloser{}, nil
	}

	var (
		w      io.Writer = console
		closer io.Closer = nopCloser{}
	)

	switch cfg.Mode {
	case settings.LogModeFile, settings.LogModeAll:
		if fs == nil {
			fs = afero.NewOsFs()
		}
		f, err := openLogFile(fs, cfg)
		if err != nil {
			return nil, nil, err
		}
		closer = f
		w = f
		if cfg.Mode == settings.LogModeAll {
			w = io.MultiWriter(console, f)
		}
	case settings.LogModeConsole:
	default:
		return nil, nil, errors.New("unknown log mode " + string(cfg.Mode))
	}

	return New(w, string(cfg.Level), false, env), closer, nil
}

func openLogFile(fs afero.Fs, cfg *settings.LoggingSettings) (afero.File, error) {
	dir := DefaultDirectory
	if cfg.Directory != nil {
		dir = *cfg.Directory
	}
	name := DefaultFilename
	if cfg.Filename != nil {
		name = *cfg.Filename
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return fs.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
