package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"devicerisk/database"
	"devicerisk/report"
)

// WriteCSV writes each visible partition to <dir>/<table_name>.csv, creating dir when needed
func WriteCSV(rep *report.Report, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return persistenceError("failed to create output directory "+dir, err)
	}

	used := make(map[string]bool)
	for _, p := range rep.Visible() {
		name := CSVFileName(p.Name, used)
		if err := writeAtomic(filepath.Join(dir, name), func(w io.Writer) error {
			return writePartitionCSV(w, p)
		}); err != nil {
			return err
		}
	}
	return nil
}

// CSVFileName returns a unique file name for a partition, e.g. "high_risk_devices.csv"
func CSVFileName(partition string, used map[string]bool) string {
	base := database.TableName(partition)
	name := base
	for i := 2; used[name]; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	used[name] = true
	return name + ".csv"
}

func writePartitionCSV(w io.Writer, p *report.Partition) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(p.Columns); err != nil {
		return err
	}
	for _, row := range p.Rows {
		record := make([]string, len(p.Columns))
		copy(record, row)
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
