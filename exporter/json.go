package exporter

import (
	"encoding/json"
	"io"

	"devicerisk/report"
)

// jsonDocument visible partitions only
type jsonDocument struct {
	*report.Report
	Partitions []*report.Partition `json:"partitions"`
}

// WriteJSON writes the visible partitions as one indented document
func WriteJSON(rep *report.Report, path string) error {
	doc := jsonDocument{Report: rep, Partitions: rep.Visible()}
	return writeAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	})
}
