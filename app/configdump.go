package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoAuthBridge/GoAuthBridge/internal/config"
)

func init() { //nolint: gochecknoinits
	configDumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Dump as JSON instead of TOML")

	configDumpCmd.Flags().StringVar(
		&configPath,
		"config",
		"etc/",
		"Path to the configuration directory",
	)

	rootCmd.AddCommand(configDumpCmd)
}

var (
	dumpJSON bool

	configDumpCmd = &cobra.Command{
		Use:   "config-dump",
		Short: "Print the effective configuration after merging the environment",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.ReadConfig(configPath)
			if err != nil {
				return err
			}

			dump := config.DumpConfig
			if dumpJSON {
				dump = config.DumpConfigJSON
			}

			out, err := dump(cfg)
			if err != nil {
				return err
			}

			fmt.Println(out)

			return nil
		},
	}
)
