package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"devicerisk/exporter"
)

const inventoryCSV = `Asset Tag ID,Brand,Category,Status,Purchase Date,Description
A1,Dell,Laptop,Available,2021-03-01,Latitude 5420
A2,,,Checked Out,2020-05-10,Lenovo ThinkPad T14 laptop
A3,Epsson,Printer,Broken,2015-01-01,
`

func writeInventory(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "Inventory.csv")
	require.NoError(t, os.WriteFile(path, []byte(inventoryCSV), 0o644))
	return path
}

func TestRun_WritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	input := writeInventory(t, dir)
	output := filepath.Join(dir, "device_analysis.xlsx")
	metricsPath := filepath.Join(dir, "devicerisk.prom")
	t.Setenv("METRICS_TEXTFILE", metricsPath)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-input", input, "-output", output}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "Processed 3 devices")
	assert.Contains(t, stdout.String(), "DATA QUALITY SUMMARY")

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "Original Data", f.GetSheetList()[0])

	assert.FileExists(t, metricsPath)
}

func TestRun_CSVDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	input := writeInventory(t, dir)
	output := filepath.Join(dir, "report")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-input", input, "-output", output, "-format", "csv"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.FileExists(t, filepath.Join(output, "original_data.csv"))
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-input", filepath.Join(dir, "nope.csv")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "input file not found")
}

func TestRun_BadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"-unknown"}, &stdout, &stderr))
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		output     string
		configured string
		want       exporter.Format
	}{
		{"flag wins", "json", "out.xlsx", "excel", exporter.FormatJSON},
		{"extension", "", "out.db", "excel", exporter.FormatSQLite},
		{"configured", "", "out_dir", "csv", exporter.FormatCSV},
		{"default", "", "out_dir", "", exporter.FormatExcel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputFormat(tt.flag, tt.output, tt.configured)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
