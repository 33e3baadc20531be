package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sparams "github.com/rfkit/go-sparams"
)

// bindFlags binds the named flags of cmd to their viper keys.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Show dimensions, frequency range and stored encodings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			m, err := openMatrix(args[0], newSink(cfg.Logging.Verbose))
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), args[0], m)
			return nil
		},
	}
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert between Touchstone files and binary snapshots",
		Long: `Convert reads IN and writes OUT, choosing each encoding from the file
extension: .snpb is a binary snapshot, anything else is Touchstone.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts, err := cfg.WriteOptions()
			if err != nil {
				return err
			}

			sink := newSink(cfg.Logging.Verbose)
			m, err := openMatrix(args[0], sink)
			if err != nil {
				return err
			}
			if err := saveMatrix(m, args[1], opts); err != nil {
				return err
			}
			sink(sparams.LevelVerbose, fmt.Sprintf("wrote %d points to %s", m.Points(), args[1]))
			return nil
		},
	}

	cmd.Flags().String("format", "MA", "Touchstone data format: MA, DB or RI")
	cmd.Flags().String("unit", "GHZ", "Touchstone frequency unit: HZ, KHZ, MHZ or GHZ")
	cmd.Flags().String("header", "", "free text written at the top of Touchstone output")
	bindFlags(cmd, map[string]string{
		"format": "write.format",
		"unit":   "write.unit",
		"header": "write.header",
	})
	return cmd
}

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace FILE",
		Short: "Print one parameter resampled onto a uniform grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pair, opts, err := cfg.TraceOptions()
			if err != nil {
				return err
			}

			m, err := openMatrix(args[0], newSink(cfg.Logging.Verbose))
			if err != nil {
				return err
			}

			grid := traceGrid(m, cfg.Trace.StartHz, cfg.Trace.StopHz, cfg.Trace.Points)
			t, err := m.Trace(pair, grid, opts)
			if err != nil {
				return err
			}
			printTrace(cmd.OutOrStdout(), pair, t)
			return nil
		},
	}

	cmd.Flags().StringP("param", "p", "S21", "parameter to trace")
	cmd.Flags().Float64("start", 0, "first grid frequency in Hz (0 = data minimum)")
	cmd.Flags().Float64("stop", 0, "grid end in Hz, excluded (0 = data maximum)")
	cmd.Flags().IntP("points", "n", 401, "number of grid points")
	cmd.Flags().StringP("method", "m", "linear", "resampling method: linear or spline")
	cmd.Flags().String("extrapolate", "none", "out-of-range policy: none, zero, left, right or ends")
	bindFlags(cmd, map[string]string{
		"param":       "trace.param",
		"start":       "trace.start_hz",
		"stop":        "trace.stop_hz",
		"points":      "trace.points",
		"method":      "trace.method",
		"extrapolate": "trace.extrapolate",
	})
	return cmd
}

func newTCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tcheck FILE",
		Short: "Print the T-Check figure of a two-port measurement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			m, err := openMatrix(args[0], newSink(cfg.Logging.Verbose))
			if err != nil {
				return err
			}

			values, err := m.TCheck()
			if err != nil {
				return err
			}
			printTCheck(cmd.OutOrStdout(), m.Frequencies(), values)
			return nil
		},
	}
}

func newTimeDomainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "td FILE",
		Aliases: []string{"timedomain"},
		Short:   "Print the band-pass impulse response of one parameter",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pair, opts, err := cfg.TimeDomainOptions()
			if err != nil {
				return err
			}

			m, err := openMatrix(args[0], newSink(cfg.Logging.Verbose))
			if err != nil {
				return err
			}
			resp, err := m.TimeDomain(pair, opts)
			if err != nil {
				return err
			}
			printResponse(cmd.OutOrStdout(), pair, resp)
			return nil
		},
	}

	cmd.Flags().StringP("param", "p", "S21", "parameter to transform")
	cmd.Flags().IntP("points", "n", 1024, "transform length")
	cmd.Flags().Float64("beta", 6, "Kaiser window shape (negative disables windowing)")
	bindFlags(cmd, map[string]string{
		"param":  "time_domain.param",
		"points": "time_domain.points",
		"beta":   "time_domain.beta",
	})
	return cmd
}
