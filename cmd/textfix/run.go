package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dmitrymomot/textfix/pkg/config"
	"github.com/dmitrymomot/textfix/pkg/logger"
	"github.com/dmitrymomot/textfix/pkg/reconcile"
	"github.com/dmitrymomot/textfix/pkg/targets"
)

// runConfig holds the settings of the run command that are not part of
// reconcile.Config.
type runConfig struct {
	TargetsFile string `env:"TEXTFIX_TARGETS_FILE"`
	Checkpoints bool   `env:"TEXTFIX_CHECKPOINTS" envDefault:"false"`
}

type runFlags struct {
	apply       bool
	batch       int
	limit       int
	targets     []string
	resume      bool
	checkpoints bool
	targetsFile string
	json        bool
}

func newRunCommand(a *app) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan targets and report (or, with --apply, write) text corrections",
		Long: "Scans every selected target page by page, repairs mojibake and HTML entities " +
			"in the configured fields and prints a report. Without --apply nothing is written.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&f.apply, "apply", false, "Write corrections (default is a dry run)")
	flags.IntVar(&f.batch, "batch", reconcile.DefaultBatchSize, "Records per page")
	flags.IntVar(&f.limit, "limit", 0, "Maximum records to scan across all targets (0 = no limit)")
	flags.StringSliceVar(&f.targets, "targets", nil, "Comma separated target names (default all)")
	flags.BoolVar(&f.resume, "resume", false, "Start each target from its saved checkpoint")
	flags.BoolVar(&f.checkpoints, "checkpoints", false, "Save progress to Redis during apply runs")
	flags.StringVar(&f.targetsFile, "targets-file", "", "YAML file describing targets (default built-in set)")
	flags.BoolVar(&f.json, "json", false, "Print the report as JSON")
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "models" {
			name = "targets"
		}
		return pflag.NormalizedName(name)
	})

	return cmd
}

func (a *app) run(cmd *cobra.Command, f runFlags) error {
	ctx := cmd.Context()

	var rcfg reconcile.Config
	if err := config.Load(&rcfg); err != nil {
		return err
	}
	var ccfg runConfig
	if err := config.Load(&ccfg); err != nil {
		return err
	}
	applyRunFlags(cmd.Flags(), f, &rcfg, &ccfg)

	opts, err := rcfg.RunOptions()
	if err != nil {
		return err
	}

	file, err := loadTargets(ccfg.TargetsFile)
	if err != nil {
		return err
	}

	be := newBackends(a.log)
	defer be.Close(context.WithoutCancel(ctx))

	registry, err := targets.Build(file, be.factory(ctx))
	if err != nil {
		return err
	}

	rOpts := append(rcfg.ReconcilerOptions(), reconcile.WithLogger(a.log))
	if ccfg.Checkpoints || opts.Resume {
		cps, err := be.checkpointer(ctx)
		if err != nil {
			return err
		}
		rOpts = append(rOpts, reconcile.WithCheckpointer(cps))
	}

	r, err := reconcile.New(registry, rOpts...)
	if err != nil {
		return err
	}

	report, runErr := r.Run(ctx, opts)
	if report == nil {
		return runErr
	}

	if opts.Mode == reconcile.ModeApply && report.Total.Applied > 0 {
		if err := be.flush(); err != nil {
			return errors.Join(runErr, err)
		}
	}

	if f.json {
		if err := writeJSON(cmd, report); err != nil {
			return err
		}
	} else {
		printReport(cmd.OutOrStdout(), report)
	}

	if runErr != nil {
		return runErr
	}
	if report.HasErrors() {
		a.log.ErrorContext(ctx, "run finished with errors",
			slog.Int("failed_writes", report.Total.Failed),
			slog.Int("failed_targets", len(report.TargetErrors)),
			logger.Duration(report.Duration().Round(time.Millisecond)))
		return errReportHasErrors
	}
	return nil
}

// applyRunFlags lets explicitly set flags win over environment values.
func applyRunFlags(fs *pflag.FlagSet, f runFlags, rcfg *reconcile.Config, ccfg *runConfig) {
	if fs.Changed("apply") {
		rcfg.Mode = string(reconcile.ModeDryRun)
		if f.apply {
			rcfg.Mode = string(reconcile.ModeApply)
		}
	}
	if fs.Changed("batch") {
		rcfg.BatchSize = f.batch
	}
	if fs.Changed("limit") {
		rcfg.Limit = f.limit
	}
	if fs.Changed("targets") {
		rcfg.Targets = f.targets
	}
	if fs.Changed("resume") {
		rcfg.Resume = f.resume
	}
	if fs.Changed("checkpoints") {
		ccfg.Checkpoints = f.checkpoints
	}
	if fs.Changed("targets-file") {
		ccfg.TargetsFile = f.targetsFile
	}
}

func loadTargets(path string) (*targets.File, error) {
	if path == "" {
		return targets.Default(), nil
	}
	return targets.Load(path)
}
