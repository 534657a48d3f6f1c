// Package cmd wires the command line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/domready/internal/config"
	"github.com/xkilldash9x/domready/internal/observability"
)

// Version is the application version, set at build time via ldflags.
// Example: go build -ldflags "-X github.com/xkilldash9x/domready/cmd.Version=1.0.0"
var Version = "0.1.0"

// rootState carries what PersistentPreRunE resolves for the subcommands.
type rootState struct {
	cfgFile string
	cfg     *config.Config
}

// NewRootCommand builds a fresh command tree. Each invocation gets its own
// flag state, so runs never leak flags into each other.
func NewRootCommand() *cobra.Command {
	state := &rootState{}

	rootCmd := &cobra.Command{
		Use:     "domready",
		Short:   "domready checks whether DOM elements are ready for interaction.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := initializeConfig(state.cfgFile)
			if err != nil {
				return err
			}
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{
					Level: "info", Format: "console", ServiceName: "domready",
				})
				return err
			}
			state.cfg = cfg

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting domready", zap.String("version", Version))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&state.cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newCheckCommand(state))
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// Execute runs a fresh command tree under the given context. Errors are
// logged here; the caller only decides the exit code.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return err
}

// initializeConfig assembles the viper instance: defaults, then an optional
// config file, then DOMREADY_* environment variables.
func initializeConfig(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".domready"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("DOMREADY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and environment carry the run.
	}
	return v, nil
}
