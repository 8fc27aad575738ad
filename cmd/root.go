// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/uidriver/internal/config"
	"github.com/xkilldash9x/uidriver/internal/observability"
)

type contextKey string

const configKey contextKey = "config"

var cfgFile string

// NewRootCommand builds a fresh command tree. Each call returns an
// independent tree so flag state never leaks between executions.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "uidriver",
		Short:         "uidriver drives a touch-emulating browser through wait, click and gesture commands.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := initializeConfig(cmd, v); err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "uidriver"})
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "uidriver"})
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting uidriver", zap.String("version", Version))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./uidriver.yaml, then ~/uidriver.yaml)")
	cmd.PersistentFlags().String("url", "", "page to open before running the command")
	cmd.PersistentFlags().Bool("headless", true, "run the browser without a window")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table or json")
	cmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)

	cmd.AddCommand(
		newWaitCmd(),
		newVanishCmd(),
		newTextCmd(),
		newClickCmd(),
		newTabCmd(),
		newCheckCmd(),
		newListCmd(),
		newSwipeCmd(),
		newTapCmd(),
		newZoomCmd(),
		newDragCmd(),
		newDiffCmd(),
		newDumpCmd(),
		newRunCmd(),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the command tree with a signal-aware context.
func Execute(ctx context.Context) error {
	root := NewRootCommand()
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		observability.GetLogger().Debug("Command execution failed", zap.Error(err))
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	observability.Sync()
	return err
}

// initializeConfig reads in the config file, environment variables and the
// persistent flags, in increasing order of precedence.
func initializeConfig(cmd *cobra.Command, v *viper.Viper) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName("uidriver")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("UIDRIVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	flags := cmd.Flags()
	if f := flags.Lookup("url"); f != nil && f.Changed {
		v.Set("browser.start_url", f.Value.String())
	}
	if f := flags.Lookup("headless"); f != nil && f.Changed {
		v.Set("browser.headless", f.Value.String() == "true")
	}
	return nil
}

// configFrom returns the configuration stored by the root pre-run.
func configFrom(cmd *cobra.Command) (config.Interface, error) {
	cfg, ok := cmd.Context().Value(configKey).(config.Interface)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not initialized")
	}
	return cfg, nil
}
