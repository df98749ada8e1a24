package exporter

import (
	"context"

	"devicerisk/database"
	"devicerisk/report"
)

// WriteSQLite appends the report to the sqlite database at path
func WriteSQLite(ctx context.Context, rep *report.Report, path string) error {
	db, err := database.NewReportDB(path)
	if err != nil {
		return persistenceError("failed to open "+path, err)
	}
	defer db.Close()

	if err := db.SaveReport(ctx, rep); err != nil {
		return persistenceError("failed to save report to "+path, err)
	}
	return nil
}
