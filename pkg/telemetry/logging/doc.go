// Package logging provides structured logging for verity.
//
// The package wraps log/slog with a small configuration layer (level,
// format, source locations, output writer) and a set of context keys so
// that every line logged during a check carries the run ID and the rule
// file being evaluated.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    return err
//	}
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "check finished", "passed", true)
//
// The engine in pkg/validate accepts a plain *slog.Logger; pass
// logger.Slog() so rule diagnostics land in the same output.
package logging
