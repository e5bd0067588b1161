package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sivaosorg/dualog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	optionNameLevel        = "level"
	optionNameMode         = "mode"
	optionNameFile         = "file"
	optionNameFlushTimeout = "flush-timeout"
	optionNameAs           = "as"
	optionNameJSON         = "json"
	optionNameMetricsAddr  = "metrics-addr"
)

func init() {
	cobra.EnableCommandSorting = false
}

type command struct {
	root    *cobra.Command
	config  *viper.Viper
	cfgFile string
}

type option func(*command)

func newCommand(opts ...option) (c *command, err error) {
	c = &command{
		root: &cobra.Command{
			Use:           "dualog",
			Short:         "Leveled console and file logging from the command line",
			SilenceErrors: true,
			SilenceUsage:  true,
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				if err := c.initConfig(); err != nil {
					return err
				}
				return c.config.BindPFlags(cmd.Flags())
			},
		},
	}

	c.initGlobalFlags()
	c.initLogCmds()
	c.initPipeCmd()
	c.initVersionCmd()

	for _, o := range opts {
		o(c)
	}

	return c, nil
}

func (c *command) Execute() (err error) {
	return c.root.Execute()
}

// Execute parses command line arguments and runs appropriate functions.
func Execute() (err error) {
	c, err := newCommand()
	if err != nil {
		return err
	}
	return c.Execute()
}

func (c *command) initGlobalFlags() {
	globalFlags := c.root.PersistentFlags()
	globalFlags.StringVar(&c.cfgFile, "config", "", "config file (yaml or toml)")
	globalFlags.String(optionNameLevel, "DEBUG", "threshold: DEBUG, INFO, WARN or ERROR")
	globalFlags.String(optionNameMode, "CONSOLE", "sinks: CONSOLE, FILE or ALL")
	globalFlags.String(optionNameFile, "", "log file path, required by FILE and ALL")
	globalFlags.Duration(optionNameFlushTimeout, 5*time.Second, "maximum time to wait for queued lines to be written")
}

func (c *command) initConfig() (err error) {
	config := viper.New()
	if c.cfgFile != "" {
		config.SetConfigFile(c.cfgFile)
	}

	// Environment
	config.SetEnvPrefix("dualog")
	config.AutomaticEnv() // read in environment variables that match
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if c.cfgFile != "" {
		if err := config.ReadInConfig(); err != nil {
			var e viper.ConfigFileNotFoundError
			if !errors.As(err, &e) {
				return err
			}
		}
	}
	c.config = config
	return nil
}

// newLogger builds a logger writing its console output to cmd's output
// stream and its internal failures to cmd's error stream.
func (c *command) newLogger(cmd *cobra.Command) (*dualog.Logger, error) {
	cfg := dualog.Config{
		Level: c.config.GetString(optionNameLevel),
		Mode:  c.config.GetString(optionNameMode),
		File:  c.config.GetString(optionNameFile),
	}
	return dualog.New(cfg,
		dualog.WithConsole(cmd.OutOrStdout()),
		dualog.WithErrorHandler(func(err error) {
			cmd.PrintErrln(err)
		}),
	)
}

// flush waits for queued lines within the configured flush timeout.
func (c *command) flush(l *dualog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.GetDuration(optionNameFlushTimeout))
	defer cancel()
	if err := l.Flush(ctx); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
