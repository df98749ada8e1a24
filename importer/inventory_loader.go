package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"devicerisk/apperrors"
	"devicerisk/inventory"
)

// Supported input encodings
const (
	EncodingAuto        = "auto"
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "latin-1"
	EncodingWindows1252 = "windows-1252"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoaderConfig options for loading an inventory export
type LoaderConfig struct {
	Encoding  string // auto, utf-8, latin-1 or windows-1252; ignored for xlsx
	Sheet     string // xlsx sheet; empty selects the first one
	Delimiter rune   // 0 picks by extension: tab for .tsv, comma otherwise
	Logger    *slog.Logger
}

// DefaultLoaderConfig returns the default configuration
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		Encoding: EncodingAuto,
		Logger:   slog.Default(),
	}
}

// Load reads an inventory from path, dispatching on the file extension
func Load(path string, cfg LoaderConfig) (*inventory.Table, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewInputError("input file not found: "+path, err)
		}
		return nil, apperrors.NewInputError("cannot read input file: "+path, err)
	}

	source := filepath.Base(path)
	var table *inventory.Table

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		table, err = ParseDelimited(data, source, withDelimiter(cfg, ','))
	case ".tsv":
		table, err = ParseDelimited(data, source, withDelimiter(cfg, '\t'))
	case ".xlsx", ".xlsm":
		table, err = ParseWorkbook(bytes.NewReader(data), source, cfg)
	default:
		return nil, apperrors.NewInputError("unsupported input extension "+ext, apperrors.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	cfg.Logger.Info("Inventory loaded",
		"source", source,
		"records", len(table.Records),
		"columns", len(table.Headers),
	)
	return table, nil
}

func withDelimiter(cfg LoaderConfig, def rune) LoaderConfig {
	if cfg.Delimiter == 0 {
		cfg.Delimiter = def
	}
	return cfg
}

// ParseDelimited parses delimited text in the configured encoding
func ParseDelimited(data []byte, source string, cfg LoaderConfig) (*inventory.Table, error) {
	decoded, err := Decode(data, cfg.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	if cfg.Delimiter != 0 {
		reader.Comma = cfg.Delimiter
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewInputError("malformed delimited input", err)
		}
		rows = append(rows, row)
	}

	return BuildTable(source, rows)
}

// ParseWorkbook reads one sheet of an xlsx workbook
func ParseWorkbook(r io.Reader, source string, cfg LoaderConfig) (*inventory.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewInputError("failed to open Excel file", err)
	}
	defer f.Close()

	sheet := cfg.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, apperrors.NewInputError("no sheets found in Excel file", apperrors.ErrEmptyInput)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, apperrors.NewInputError(fmt.Sprintf("sheet %q not found", sheet), err)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewInputError("failed to get rows", err)
	}

	return BuildTable(source, rows)
}

// Decode converts data to UTF-8
func Decode(data []byte, enc string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", EncodingAuto:
		if utf8.Valid(data) {
			return bytes.TrimPrefix(data, utf8BOM), nil
		}
		return decodeWith(charmap.ISO8859_1, data)
	case EncodingUTF8, "utf8":
		if !utf8.Valid(data) {
			return nil, apperrors.NewInputError("input is not valid UTF-8", apperrors.ErrUnreadableEncoding)
		}
		return bytes.TrimPrefix(data, utf8BOM), nil
	case EncodingLatin1, "iso-8859-1", "latin1":
		return decodeWith(charmap.ISO8859_1, data)
	case EncodingWindows1252, "cp1252":
		return decodeWith(charmap.Windows1252, data)
	}
	return nil, apperrors.NewInputError("unknown encoding "+enc, apperrors.ErrUnreadableEncoding)
}

func decodeWith(cm *charmap.Charmap, data []byte) ([]byte, error) {
	decoded, _, err := transform.Bytes(cm.NewDecoder(), data)
	if err != nil {
		return nil, apperrors.NewInputError("cannot decode input as "+cm.String(), errors.Join(apperrors.ErrUnreadableEncoding, err))
	}
	return decoded, nil
}

// BuildTable turns raw rows into a table. The first non-blank row is the header.
func BuildTable(source string, rows [][]string) (*inventory.Table, error) {
	start := 0
	for start < len(rows) && isEmptyRow(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, apperrors.NewInputError("input has no rows", apperrors.ErrEmptyInput)
	}

	headers := uniqueHeaders(rows[start])
	table := &inventory.Table{Source: source, Headers: headers}

	if missing := table.MissingColumns(); len(missing) > 0 {
		return nil, apperrors.NewInputError(
			"missing columns: "+strings.Join(missing, ", "),
			apperrors.ErrMissingColumns,
		)
	}

	line := 0
	for _, row := range rows[start+1:] {
		if isEmptyRow(row) {
			continue
		}
		line++
		rec := inventory.Record{Line: line}
		for i, h := range headers {
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			rec.Set(h, value)
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

// uniqueHeaders trims header text, names blank headers and suffixes repeats
// (".1", ".2") so every header maps to exactly one cell
func uniqueHeaders(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int)
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		key := inventory.CanonicalHeader(h)
		if n := seen[key]; n > 0 {
			h = h + "." + strconv.Itoa(n)
		}
		seen[key]++
		out[i] = h
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
