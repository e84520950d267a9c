package reconcile

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Mode selects whether corrections are written.
type Mode string

const (
	// ModeDryRun computes corrections and statistics without writing.
	ModeDryRun Mode = "dry-run"
	// ModeApply writes every non-empty change set.
	ModeApply Mode = "apply"
)

const (
	DefaultBatchSize    = 200
	DefaultSampleSize   = 15
	DefaultWriteRetries = 2
	DefaultWriteBackoff = 200 * time.Millisecond

	// sampleValueLimit caps the rendered length of sampled values, in runes.
	sampleValueLimit = 120
	// maxRecordedErrors caps the per-record errors kept in a report.
	// Failed counters stay exact beyond the cap.
	maxRecordedErrors = 1000
)

// ParseMode converts a textual mode. An empty string selects ModeDryRun.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeDryRun:
		return ModeDryRun, nil
	case ModeApply:
		return ModeApply, nil
	default:
		return "", errors.Join(ErrInvalidMode, fmt.Errorf("got %q", s))
	}
}

// RunOptions configures a single run.
type RunOptions struct {
	// Mode is ModeDryRun or ModeApply.
	Mode Mode
	// BatchSize is the page size requested from each store.
	BatchSize int
	// Limit caps the number of records scanned across all targets. Zero means no limit.
	Limit int
	// Targets restricts the run to the named targets. Empty runs every target.
	Targets []string
	// Resume starts each target from its saved checkpoint, if any.
	Resume bool
}

// DefaultRunOptions returns a dry run over every target with the default batch size.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		Mode:      ModeDryRun,
		BatchSize: DefaultBatchSize,
	}
}

// Validate checks the options and reports every problem at once.
func (o RunOptions) Validate() error {
	var errs []error
	if o.Mode != ModeDryRun && o.Mode != ModeApply {
		errs = append(errs, errors.Join(ErrInvalidMode, fmt.Errorf("got %q", o.Mode)))
	}
	if o.BatchSize <= 0 {
		errs = append(errs, errors.Join(ErrInvalidBatchSize, fmt.Errorf("got %d", o.BatchSize)))
	}
	if o.Limit < 0 {
		errs = append(errs, errors.Join(ErrInvalidLimit, fmt.Errorf("got %d", o.Limit)))
	}
	return errors.Join(errs...)
}

// Config is the environment-driven configuration of a run. Load it with
// config.Load and convert it with RunOptions and ReconcilerOptions.
type Config struct {
	Mode         string        `env:"TEXTFIX_MODE" envDefault:"dry-run"`
	BatchSize    int           `env:"TEXTFIX_BATCH_SIZE" envDefault:"200"`
	Limit        int           `env:"TEXTFIX_LIMIT" envDefault:"0"`
	Targets      []string      `env:"TEXTFIX_TARGETS" envSeparator:","`
	Resume       bool          `env:"TEXTFIX_RESUME" envDefault:"false"`
	SampleSize   int           `env:"TEXTFIX_SAMPLE_SIZE" envDefault:"15"`
	WriteRetries int           `env:"TEXTFIX_WRITE_RETRIES" envDefault:"2"`
	WriteBackoff time.Duration `env:"TEXTFIX_WRITE_BACKOFF" envDefault:"200ms"`
}

// RunOptions converts the configuration into run options.
func (c Config) RunOptions() (RunOptions, error) {
	mode, err := ParseMode(c.Mode)
	if err != nil {
		return RunOptions{}, err
	}
	opts := RunOptions{
		Mode:      mode,
		BatchSize: c.BatchSize,
		Limit:     c.Limit,
		Targets:   c.Targets,
		Resume:    c.Resume,
	}
	return opts, opts.Validate()
}

// ReconcilerOptions converts the configuration into constructor options.
func (c Config) ReconcilerOptions() []Option {
	return []Option{
		WithSampleSize(c.SampleSize),
		WithWriteRetries(c.WriteRetries, c.WriteBackoff),
	}
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCheckpointer enables saving and resuming scan cursors.
func WithCheckpointer(c Checkpointer) Option {
	return func(r *Reconciler) {
		if c != nil {
			r.checkpointer = c
		}
	}
}

// WithSampleSize sets how many field changes a report keeps verbatim.
// Negative values are ignored; zero disables sampling.
func WithSampleSize(n int) Option {
	return func(r *Reconciler) {
		if n >= 0 {
			r.sampleSize = n
		}
	}
}

// WithWriteRetries sets how often a write that failed with a retryable error
// is retried, and the base delay of the exponential backoff.
func WithWriteRetries(n int, backoff time.Duration) Option {
	return func(r *Reconciler) {
		if n >= 0 {
			r.writeRetries = n
		}
		if backoff > 0 {
			r.writeBackoff = backoff
		}
	}
}

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRunIDGenerator overrides how run ids are generated.
func WithRunIDGenerator(gen func() string) Option {
	return func(r *Reconciler) {
		if gen != nil {
			r.newRunID = gen
		}
	}
}
