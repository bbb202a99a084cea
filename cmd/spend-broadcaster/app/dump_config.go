package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bitcoin-sv/spend-broadcaster/config"
)

var dumpConfigCmd = &cobra.Command{
	Use:   "dump-config <file>",
	Short: "Write the effective configuration to a yaml file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		cfg, err := config.Load(configDir)
		if err != nil {
			return fmt.Errorf("failed to load app config: %w", err)
		}

		return cfg.DumpConfig(args[0])
	},
}
