package main

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger returns a logger on STDERR that shows debug messages when verbose.
func (rcc *rootCmdConfig) Logger() *slog.Logger {
	level := slog.LevelWarn
	if rcc.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (rcc *rootCmdConfig) Logf(format string, a ...interface{}) {
	if !rcc.verbose {
		return
	}
	rcc.Logger().Info(fmt.Sprintf(format, a...))
}

func fail(code int, err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}
