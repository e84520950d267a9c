package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/textfix/pkg/config"
	"github.com/dmitrymomot/textfix/pkg/logger"
)

type commandKey struct{}

// app holds what the subcommands share once the root command has run its
// pre-run hook.
type app struct {
	envFiles  []string
	logLevel  string
	logFormat string
	log       *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{log: logger.Discard()}

	rootCmd := &cobra.Command{
		Use:           "textfix",
		Short:         "Find and repair mojibake and HTML entities in stored text",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), commandKey{}, cmd.Name()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "Env files to load before reading configuration")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text or json (overrides LOG_FORMAT)")

	rootCmd.AddCommand(newRunCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newTargetsCommand(a))
	rootCmd.AddCommand(newPingCommand(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadEnv(a.envFiles...); err != nil {
		return err
	}

	var cfg logger.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Format = a.logFormat
	}
	if _, err := logger.ParseLevel(cfg.Level); cfg.Level != "" && err != nil {
		return err
	}
	switch logger.Format(strings.ToLower(cfg.Format)) {
	case "", logger.FormatJSON, logger.FormatText:
	default:
		return errInvalidLogFormat(cfg.Format)
	}

	a.log = logger.New(
		logger.FromConfig(cfg, "textfix"),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithContextValue("command", commandKey{}),
	)
	logger.SetAsDefault(a.log)
	return nil
}
