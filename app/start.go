package app

import (
	"github.com/spf13/cobra"

	"github.com/GoAuthBridge/GoAuthBridge/internal/config"
	"github.com/GoAuthBridge/GoAuthBridge/internal/daemon"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	startCmd.Flags().StringVar(
		&configPath,
		"config",
		"etc/",
		"Path to the configuration directory",
	)

	rootCmd.AddCommand(startCmd)
}

var (
	configPath string // Path to the configuration directory

	cfg     config.Config
	err     error
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the GoAuthBridge web service",
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}

			if devMode {
				cfg.DevMode = true
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			daemon, err := daemon.New(&cfg)
			if err != nil {
				return err
			}

			return daemon.Start()
		},
	}
)
