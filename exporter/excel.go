package exporter

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"devicerisk/report"
)

const (
	maxSheetNameLen = 31
	maxColumnWidth  = 50
	headerFontColor = "FFFFFF"
)

// palette header and band fill colors of one theme
type palette struct {
	Header string
	Band   string
}

var palettes = map[report.Theme]palette{
	report.ThemeNeutral:  {Header: "366092", Band: "D9E2F3"},
	report.ThemePositive: {Header: "27AE60", Band: "D5F4E6"},
	report.ThemeNegative: {Header: "E74C3C", Band: "FADBD8"},
	report.ThemeCaution:  {Header: "F39C12", Band: "FCF3CF"},
	report.ThemeSummary:  {Header: "8E44AD", Band: "E8DAEF"},
	report.ThemeAnalysis: {Header: "1F4E79", Band: "D6EAF8"},
}

func paletteFor(t report.Theme) palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[report.ThemeNeutral]
}

// styleSet header and band style ids of one theme, created on first use
type styleSet struct {
	header int
	band   int
}

type workbook struct {
	f      *excelize.File
	styles map[report.Theme]styleSet
}

// WriteExcel writes one sheet per visible partition into an xlsx workbook at path
func WriteExcel(rep *report.Report, path string) error {
	f, err := BuildWorkbook(rep)
	if err != nil {
		return persistenceError("failed to build workbook", err)
	}
	defer f.Close()

	return writeAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	})
}

// BuildWorkbook renders the visible partitions of rep; the first sheet is active
func BuildWorkbook(rep *report.Report) (*excelize.File, error) {
	wb := &workbook{
		f:      excelize.NewFile(),
		styles: make(map[report.Theme]styleSet),
	}
	defaultSheet := wb.f.GetSheetName(0)

	used := make(map[string]bool)
	first := ""
	for _, p := range rep.Visible() {
		name := SheetName(p.Name, used)
		if first == "" {
			first = name
			if err := wb.f.SetSheetName(defaultSheet, name); err != nil {
				wb.f.Close()
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := wb.f.NewSheet(name); err != nil {
			wb.f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}

		if err := wb.writeSheet(name, p); err != nil {
			wb.f.Close()
			return nil, fmt.Errorf("failed to write sheet %s: %w", name, err)
		}
	}

	if first != "" {
		idx, err := wb.f.GetSheetIndex(first)
		if err == nil {
			wb.f.SetActiveSheet(idx)
		}
	}
	return wb.f, nil
}

func (wb *workbook) writeSheet(sheet string, p *report.Partition) error {
	styles, err := wb.stylesFor(p.Theme)
	if err != nil {
		return err
	}
	if len(p.Columns) == 0 {
		return nil
	}

	widths := make([]int, len(p.Columns))
	header := make([]interface{}, len(p.Columns))
	for i, c := range p.Columns {
		header[i] = c
		widths[i] = utf8.RuneCountInString(c)
	}
	if err := wb.f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(p.Columns))
	if err != nil {
		return err
	}
	if err := wb.f.SetCellStyle(sheet, "A1", lastCol+"1", styles.header); err != nil {
		return err
	}

	for r, row := range p.Rows {
		values := make([]interface{}, len(p.Columns))
		for i := range values {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			values[i] = v
			if n := utf8.RuneCountInString(v); n > widths[i] {
				widths[i] = n
			}
		}

		excelRow := r + 2
		cell, _ := excelize.CoordinatesToCellName(1, excelRow)
		if err := wb.f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		if excelRow%2 == 0 {
			if err := wb.f.SetCellStyle(sheet, cell, fmt.Sprintf("%s%d", lastCol, excelRow), styles.band); err != nil {
				return err
			}
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := wb.f.SetColWidth(sheet, col, col, ColumnWidth(w)); err != nil {
			return err
		}
	}
	return nil
}

func (wb *workbook) stylesFor(t report.Theme) (styleSet, error) {
	if s, ok := wb.styles[t]; ok {
		return s, nil
	}
	pal := paletteFor(t)

	header, err := wb.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: headerFontColor},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{pal.Header}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return styleSet{}, err
	}
	band, err := wb.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{pal.Band}, Pattern: 1},
	})
	if err != nil {
		return styleSet{}, err
	}

	s := styleSet{header: header, band: band}
	wb.styles[t] = s
	return s, nil
}

// ColumnWidth longest cell plus padding, capped
func ColumnWidth(longest int) float64 {
	return float64(min(longest+2, maxColumnWidth))
}

// SheetName makes name a legal, unique worksheet name: forbidden characters become spaces,
// the result is cut to 31 characters and a numeric suffix resolves clashes
func SheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return ' '
		}
		return r
	}, name)
	clean = strings.Trim(strings.TrimSpace(clean), "'")
	if clean == "" {
		clean = "Sheet"
	}
	clean = truncateRunes(clean, maxSheetNameLen)

	candidate := clean
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = truncateRunes(clean, maxSheetNameLen-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
