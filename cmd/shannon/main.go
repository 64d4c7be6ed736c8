// Command shannon measures the per-block entropy of a file, plots it and
// reports the boundaries between low and high entropy regions.
package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

var logLevel = new(slog.LevelVar)

func init() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: "15:04:05",
		}),
	))
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("shannon failed", "err", err)
		os.Exit(1)
	}
}
