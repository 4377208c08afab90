// Package cmd wires the ledger CLI's cobra command tree. Each command
// constructs its own fresh in-memory ledger; state only carries
// between commands through an explicit --replay CSV, not through any
// process-lifetime state.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oroshi/ledger/config"
)

var (
	configPath string
	replayPath string
	cfg        config.Config
	log        *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "A UTXO-based payments ledger.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file.")
	rootCmd.PersistentFlags().StringVar(&replayPath, "replay", "", "CSV file of prior rows to apply before the requested operation.")
}

// Execute runs the command tree and returns the process exit code.
func Execute(logger *logrus.Logger) int {
	log = logger

	// The config is loaded once flags are parsed, so --config is seen.
	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.Load(configPath)
		} else {
			cfg = config.Default()
		}
		if err != nil {
			return err
		}

		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			log.SetLevel(level)
		}
		return nil
	}

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		return 1
	}
	return 0
}
