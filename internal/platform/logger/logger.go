package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. Text on stdout; services receive it by
// injection so tests can pass their own.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
