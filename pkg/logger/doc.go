// Package logger builds the structured loggers used by textfix.
//
// It is a thin layer over log/slog: New creates a *slog.Logger configured by
// functional options, and the attribute helpers give the keys that appear in
// every run log a single spelling (run_id, target, record_id, …).
//
//   - Select an output format (text or json) and a minimum level
//   - Attach static attributes to every record
//   - Register ContextExtractor callbacks that copy values stored in a
//     context.Context into each record at logging time
//
// Example:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "textfix"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//	log.Info("record updated", logger.Target("Tour"), logger.RecordID(id))
//
// Configuration can also come from the environment through Config and
// FromConfig:
//
//	var cfg logger.Config
//	_ = config.Load(&cfg)
//	log := logger.New(logger.FromConfig(cfg, "textfix"))
//
// The handler returned by New is wrapped in LogHandlerDecorator, which runs
// the registered extractors on every Handle call. Without extractors the
// decorator adds no work.
package logger
