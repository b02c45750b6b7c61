// Package logger builds slog loggers. Production environments get a JSON
// handler and every other environment a text handler; the level and output
// come from the resolved logging settings.
package logger
