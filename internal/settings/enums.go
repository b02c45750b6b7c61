package settings

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type LogMode string

const (
	LogModeAll     LogMode = "All"
	LogModeConsole LogMode = "Console"
	LogModeFile    LogMode = "File"
)

var logModes = []LogMode{LogModeAll, LogModeConsole, LogModeFile}

func (m LogMode) Validate() error {
	return validation.Validate(string(m), validation.Required, validation.In(toAny(logModes)...))
}

// UnmarshalText accepts only the exact variant names.
func (m *LogMode) UnmarshalText(text []byte) error {
	parsed, err := parseVariant("log mode", string(text), logModes)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type Level string

const (
	LevelError Level = "Error"
	LevelWarn  Level = "Warn"
	LevelInfo  Level = "Info"
	LevelDebug Level = "Debug"
	LevelTrace Level = "Trace"
)

var levels = []Level{LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace}

func (l Level) Validate() error {
	return validation.Validate(string(l), validation.Required, validation.In(toAny(levels)...))
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := parseVariant("log level", string(text), levels)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func parseVariant[T ~string](what, text string, known []T) (T, error) {
	err := validation.Validate(text, validation.Required, validation.In(toAny(known)...))
	if err != nil {
		return "", fmt.Errorf("unknown %s %q (want one of %s): %w", what, text, joinVariants(known), err)
	}
	return T(text), nil
}

func joinVariants[T ~string](known []T) string {
	out := make([]string, len(known))
	for i, v := range known {
		out[i] = string(v)
	}
	return strings.Join(out, ", ")
}

func toAny[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
