package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexshd/shannon"
	"github.com/alexshd/shannon/internal/blocks"
	"github.com/alexshd/shannon/internal/config"
	"github.com/alexshd/shannon/internal/report"
)

// NewRootCmd builds the command tree. Every subcommand shares one viper
// instance so flags, environment and config file resolve the same way.
func NewRootCmd() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:           "shannon",
		Short:         "Measure and plot the Shannon entropy of a file block by block",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (yaml, json or toml)")
	pf.String("log-level", config.Default().LogLevel, "log level: debug|info|warn|error")
	pf.IntP("block-size", "b", config.Default().BlockSize, "bytes per block")
	pf.Int("workers", 0, "goroutines computing block entropy (0 = one per CPU)")

	cmd.AddCommand(
		newPlotCmd(v),
		newEdgesCmd(v),
		newScanCmd(v),
	)
	return cmd
}

// loadConfig resolves the configuration for cmd and applies the log level.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (config.Config, error) {
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return config.Config{}, err
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(v, path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	logLevel.Set(cfg.Slog)

	slog.Debug("configuration loaded",
		"block_size", cfg.BlockSize,
		"workers", cfg.Workers,
		"high", cfg.High,
		"low", cfg.Low,
		"format", cfg.Format)

	return cfg, nil
}

// scan reads path with the configured scanner and summarises the series.
func scan(ctx context.Context, cfg config.Config, path string) (blocks.Result, report.Report, error) {
	s := cfg.Scanner()
	s.Logger = slog.Default()

	res, err := s.ScanFile(ctx, path)
	if err != nil {
		return blocks.Result{}, report.Report{}, err
	}

	slog.Info("file scanned", "file", path, "bytes", res.Bytes, "blocks", len(res.Samples))

	return res, report.Report{
		File:      path,
		Digest:    res.Digest,
		Bytes:     res.Bytes,
		BlockSize: cfg.BlockSize,
		Summary:   shannon.Summarize(res.Samples),
	}, nil
}
