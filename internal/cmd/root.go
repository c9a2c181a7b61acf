// Package cmd implements the taskplan command-line interface.
package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/felixgeelhaar/taskplan/internal/config"
	"github.com/felixgeelhaar/taskplan/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "taskplan",
	Short: "Turn goals into dependency-aware task plans",
	Long: `taskplan decomposes a natural language goal into a task breakdown via
an LLM provider, validates the dependency structure, and computes the
critical path that bounds the minimum project completion time.

Plans can also be built from local YAML or JSON task files without
calling a provider, reviewed interactively, and served over HTTP.`,

	SilenceUsage:  true,
	SilenceErrors: true,
}

var cfgFile string

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context so commands
// observe signal-driven cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/taskplan/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (json, text)")
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TASKPLAN")
	// TASKPLAN_PROVIDER_NAME maps to provider.name, and so on.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing config file is fine, defaults and env cover everything.
	_ = viper.ReadInConfig()
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// newLogger builds the CLI logger from the logging config and installs
// it as the process-wide default for components without an injected one.
func newLogger(cfg *config.Config) *log.Logger {
	logger := log.New(log.Config{
		Level:       log.ParseLevel(cfg.Logging.Level),
		Format:      log.ParseFormat(cfg.Logging.Format),
		Output:      log.OutputStderr(),
		ServiceName: "taskplan",
	})
	log.SetDefaultLogger(logger)
	return logger
}
