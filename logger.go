package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// logOutput is stderr so the stdio MCP transport keeps stdout to itself
var logOutput io.Writer = os.Stderr

func newLogger(output io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := tint.NewHandler(output, &tint.Options{
		Level:      level,
		AddSource:  debug,
		TimeFormat: "2006-01-02 15:04:05.000Z07:00",
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindAny {
				if _, ok := a.Value.Any().(error); ok {
					return tint.Attr(9, a)
				}
			}
			return a
		},
	})
	return slog.New(handler)
}
