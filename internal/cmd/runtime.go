package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/salmonumbrella/xmlcsv/internal/config"
	"github.com/spf13/cobra"
)

func loadConfigFromFlag() (*config.Config, error) {
	if strings.TrimSpace(configFile) != "" {
		return config.Load(configFile)
	}
	return config.ReadConfig()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

func formatConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}

// cliLogLevel picks the level for command logging. Progress already goes
// to stderr through the notifier, so the CLI stays at warn unless asked.
func cliLogLevel(cfg *config.Config) string {
	if debug {
		return "debug"
	}
	if cfg != nil && strings.TrimSpace(cfg.LogLevel) != "" {
		return cfg.Level()
	}
	return "warn"
}

// newLogger builds a slog logger writing to w. Unknown levels fall back
// to info.
func newLogger(w io.Writer, level string, asJSON bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// conversionOptions resolves --strict and --pad, falling back to the
// config file when the flags were not given.
func conversionOptions(cmd *cobra.Command) (strict, pad bool) {
	strict, pad = strictFlag, padFlag
	if runtimeConfig == nil {
		return strict, pad
	}
	if !flagChanged(cmd, "strict") {
		strict = runtimeConfig.Strict
	}
	if !flagChanged(cmd, "pad") {
		pad = runtimeConfig.PadRows
	}
	return strict, pad
}
