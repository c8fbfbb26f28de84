package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"quaformat/internal/config"
	"quaformat/internal/util"
)

var (
	cfgFile  string
	logLevel string
	cfg      = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "qua",
	Short: "Read, edit, export and batch-process Quaver .qua charts",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded
		return util.InitLogger(cfg.Logger)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		util.Sync()
	},
	SilenceUsage: true,
}

// loadConfig layers the config file, environment and flags, in that order.
// A missing --config is an error; no --config means defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.Default()
	if cfgFile != "" {
		var err error
		if c, err = config.LoadConfig(cfgFile); err != nil {
			return nil, err
		}
	}
	c.ApplyEnvOverrides()
	if cmd.Flags().Changed("log-level") {
		c.Logger.Level = logLevel
	}
	if err := c.ValidateConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

// fail logs, closes any run log and exits with status 1.
func fail(format string, args ...interface{}) {
	util.Fail(format, args...)
	util.CloseLogFile()
	util.Sync()
	os.Exit(1)
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}
