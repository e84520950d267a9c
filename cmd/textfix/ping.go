package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/textfix/pkg/targets"
)

func newPingCommand(a *app) *cobra.Command {
	var (
		targetsFile string
		checkpoints bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Connect to the backends a run would use and check they respond",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			file, err := loadTargets(targetsFile)
			if err != nil {
				return err
			}

			be := newBackends(a.log)
			defer be.Close(context.WithoutCancel(ctx))

			if _, err := targets.Build(file, be.factory(ctx)); err != nil {
				return err
			}
			if checkpoints {
				if _, err := be.checkpointer(ctx); err != nil {
					return err
				}
			}

			checks := be.healthchecks()
			rows := make([][]string, 0, len(checks))
			var errs []error
			for _, name := range slices.Sorted(maps.Keys(checks)) {
				status := "ok"
				if err := checks[name](ctx); err != nil {
					status = err.Error()
					errs = append(errs, err)
				}
				rows = append(rows, []string{name, status})
			}
			if len(rows) == 0 {
				rows = append(rows, []string{string(file.Backend), "no connection needed"})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Backend", "Status"}, rows, nil))
			return errors.Join(errs...)
		},
	}
	cmd.Flags().StringVar(&targetsFile, "targets-file", "", "YAML file describing targets (default built-in set)")
	cmd.Flags().BoolVar(&checkpoints, "checkpoints", false, "Also check the Redis checkpoint store")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
	return cmd
}
