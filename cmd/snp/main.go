// Command snp inspects and converts S-parameter files.
//
// Usage:
//
//	snp info filter.s2p
//	snp convert filter.s2p filter.snpb               # cache as a binary snapshot
//	snp convert --format DB --unit MHZ filter.snpb out.s2p
//	snp trace --param S21 --points 201 --method spline filter.s2p
//	snp tcheck thru.s2p
//	snp td --param S11 --points 2048 cable.s1p
//
// Flags can also be set in snp.yaml or through SNP_* environment variables,
// e.g. SNP_TRACE_POINTS=801.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rfkit/go-sparams/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "snp",
	Short: "Inspect and convert S-parameter files",
	Long: `snp reads Touchstone (.s1p, .s2p) files and binary snapshots (.snpb),
converts between them, and prints interpolated traces, T-Check figures and
band-pass impulse responses.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./snp.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	_ = viper.BindPFlag("logging.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(
		newInfoCmd(),
		newConvertCmd(),
		newTraceCmd(),
		newTCheckCmd(),
		newTimeDomainCmd(),
	)
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("snp")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("SNP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, the config file, environment and flags.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
