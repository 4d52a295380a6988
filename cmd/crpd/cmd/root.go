package cmd

import (
	"fmt"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagLogLevel    = "log-level"
	flagMetricsPort = "metrics-port"

	envPrefix = "CRPD"
)

// NewRootCmd creates the crpd root command.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "crpd",
		Short: "Rights-gated weighted pool controller",
		Long: `crpd drives configurable rights pools on an in-memory chain. It replays
scenario files and runs randomized simulations against the crp and bpool
modules.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return v.BindPFlags(cmd.Flags())
		},
	}

	rootCmd.PersistentFlags().String(flagLogLevel, zerolog.InfoLevel.String(), "log level (trace|debug|info|warn|error|disabled)")
	rootCmd.PersistentFlags().Int(flagMetricsPort, 0, "serve Prometheus metrics on this port; 0 disables")

	rootCmd.AddCommand(
		NewSimulateCmd(v),
		NewRandomCmd(v),
	)
	return rootCmd
}

// newLogger builds a zerolog-backed logger at the configured level.
func newLogger(cmd *cobra.Command, v *viper.Viper) (log.Logger, error) {
	level, err := zerolog.ParseLevel(v.GetString(flagLogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", flagLogLevel, err)
	}
	return log.NewLogger(cmd.ErrOrStderr(), log.LevelOption(level), log.ColorOption(false)), nil
}

// startMetrics serves metrics when a port is configured.
func startMetrics(v *viper.Viper, logger log.Logger) {
	if port := v.GetInt(flagMetricsPort); port > 0 {
		startPrometheusServer(port, logger)
	}
}
