package exporter

import (
	"context"
	"time"

	"devicerisk/apperrors"
	"devicerisk/report"
)

// RetryConfig how often a failed save is repeated
type RetryConfig struct {
	Retries    int // extra attempts after the first one
	Delay      time.Duration
	Multiplier float64 // applied to Delay after each failure; <= 1 keeps it constant
	MaxDelay   time.Duration
}

// DefaultRetryConfig returns two retries two seconds apart
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Retries:    2,
		Delay:      2 * time.Second,
		Multiplier: 1,
		MaxDelay:   30 * time.Second,
	}
}

// ExportWithRetry exports rep and repeats the same write while it fails with a
// persistence error. The report is never rebuilt between attempts.
func (e *Exporter) ExportWithRetry(ctx context.Context, rep *report.Report, path string, format Format, cfg RetryConfig) error {
	delay := cfg.Delay
	attempts := cfg.Retries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := e.Export(ctx, rep, path, format)
		if err == nil {
			if attempt > 1 {
				e.logger.InfoContext(ctx, "Save succeeded after retry", "path", path, "attempt", attempt)
			}
			return nil
		}
		lastErr = err

		if !apperrors.IsRetryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		e.logger.WarnContext(ctx, "Save failed, retrying",
			"path", path,
			"attempt", attempt,
			"max_attempts", attempts,
			"retry_in", delay.String(),
			"error", err,
		)
		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(delay):
		}

		if cfg.Multiplier > 1 {
			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}

	e.logger.ErrorContext(ctx, "Save failed", "path", path, "attempts", attempts, "error", lastErr)
	return lastErr
}
