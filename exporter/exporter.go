package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"devicerisk/apperrors"
	"devicerisk/internal/logging"
	"devicerisk/report"
)

// Format output format
type Format string

const (
	FormatExcel  Format = "excel"
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// Formats all supported formats
var Formats = []Format{FormatExcel, FormatCSV, FormatJSON, FormatSQLite}

// ParseFormat accepts a format name or a common alias; empty means excel
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "excel", "xlsx":
		return FormatExcel, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", apperrors.NewConfigError(
		fmt.Sprintf("unknown output format %s (must be one of %s)", s, strings.Join(names, ", ")),
		apperrors.ErrUnsupportedFormat,
	)
}

// FormatFromPath infers the format from the output extension
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatExcel, true
	case ".json":
		return FormatJSON, true
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, true
	}
	return "", false
}

// Exporter persists reports
type Exporter struct {
	logger *slog.Logger
}

// Option configures an Exporter
type Option func(*Exporter)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an exporter
func New(opts ...Option) *Exporter {
	e := &Exporter{logger: logging.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes every visible partition of rep to path. Failures are persistence errors
// and leave any previous file at path untouched.
func (e *Exporter) Export(ctx context.Context, rep *report.Report, path string, format Format) error {
	if rep == nil {
		return apperrors.NewPersistenceError("nothing to export", errors.New("nil report"))
	}
	if strings.TrimSpace(path) == "" {
		return apperrors.NewConfigError("output path is required", nil)
	}

	start := time.Now()
	var err error
	switch format {
	case FormatExcel, "":
		err = WriteExcel(rep, path)
	case FormatCSV:
		err = WriteCSV(rep, path)
	case FormatJSON:
		err = WriteJSON(rep, path)
	case FormatSQLite:
		err = WriteSQLite(ctx, rep, path)
	default:
		return apperrors.NewConfigError(fmt.Sprintf("unknown output format %q", format), apperrors.ErrUnsupportedFormat)
	}
	if err != nil {
		return err
	}

	e.logger.InfoContext(ctx, "Report exported",
		"path", path,
		"format", string(format),
		"partitions", len(rep.Visible()),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// writeAtomic writes through a temp file in the target directory which is then renamed over path
func writeAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return persistenceError("failed to create temp file in "+dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return persistenceError("failed to write "+path, err)
	}
	if err := tmp.Close(); err != nil {
		return persistenceError("failed to write "+path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return persistenceError("failed to replace "+path, err)
	}
	return nil
}

// persistenceError picks the hint from the cause: a denied write usually means the target is open elsewhere
func persistenceError(message string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, fs.ErrPermission) {
		return apperrors.NewPersistenceError(message, errors.Join(apperrors.ErrFileLocked, err)).
			WithHint(apperrors.HintCloseFile)
	}
	return apperrors.NewPersistenceError(message, err)
}
