package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexshd/shannon"
	"github.com/alexshd/shannon/internal/config"
	"github.com/alexshd/shannon/internal/report"
)

func newPlotCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot FILE",
		Short: "Draw the per-block entropy of FILE as a bar chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}

			res, _, err := scan(cmd.Context(), cfg, args[0])
			if err != nil {
				return err
			}
			return cfg.Chart().Render(cmd.OutOrStdout(), res.Samples)
		},
	}

	d := config.Default()
	f := cmd.Flags()
	f.Int("width", d.Width, "chart width in columns (at least 32)")
	f.Int("height", d.Height, "chart height in rows (at least 32)")
	f.Float32P("y-max", "y", d.YMax, "top of the y axis in bits (0 = series maximum)")
	return cmd
}

func newEdgesCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edges FILE",
		Short: "Report where FILE crosses between low and high entropy regions",
		Long: "Detects rising and falling edges in the per-block entropy of FILE.\n" +
			"Entropy is normalized to [0, 1]. A rising edge fires at or above --high,\n" +
			"a falling edge at or below --low. After a rising edge the signal must drop\n" +
			"below --high, and after a falling edge climb above --low, before another fires.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}

			res, rep, err := scan(cmd.Context(), cfg, args[0])
			if err != nil {
				return err
			}

			th := cfg.Thresholds()
			rep.Thresholds = &th
			rep.Edges = shannon.DetectEdges(res.Samples, th.High, th.Low)

			for _, e := range rep.Edges {
				slog.Debug("edge", "block", e.Index, "type", e.Type, "normalized", e.NormalizedEntropy)
			}

			return report.Write(cmd.OutOrStdout(), cfg.Output, rep)
		},
	}

	d := config.Default()
	f := cmd.Flags()
	f.Float32("high", d.High, "normalized entropy at or above which a rising edge fires")
	f.Float32("low", d.Low, "normalized entropy at or below which a falling edge fires")
	f.StringP("format", "f", d.Format, "output format: text|json")
	return cmd
}

func newScanCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan FILE",
		Short: "Print the per-block entropy series of FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}

			res, rep, err := scan(cmd.Context(), cfg, args[0])
			if err != nil {
				return err
			}
			rep.Samples = res.Samples

			return report.Write(cmd.OutOrStdout(), cfg.Output, rep)
		},
	}

	cmd.Flags().StringP("format", "f", config.Default().Format, "output format: text|json")
	return cmd
}
