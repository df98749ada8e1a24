package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"devicerisk/apperrors"
	"devicerisk/internal/logging"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func testConfig() LoaderConfig {
	cfg := DefaultLoaderConfig()
	cfg.Logger = logging.Discard()
	return cfg
}

func TestLoad_CSV(t *testing.T) {
	content := "Asset Tag ID, brand ,CATEGORY,Status,Purchase_Date,Description,Location\n" +
		"A1,Dell,Laptop,Available,2022-01-01,Latitude,HQ\n" +
		"\n" +
		",,,,,,\n" +
		"A2,,Printer\n"
	path := writeFile(t, "Inventory.csv", []byte(content))

	table, err := Load(path, testConfig())
	require.NoError(t, err)

	assert.Equal(t, "Inventory.csv", table.Source)
	assert.Equal(t, []string{"Asset Tag ID", "brand", "CATEGORY", "Status", "Purchase_Date", "Description", "Location"}, table.Headers)
	require.Len(t, table.Records, 2)

	first := table.Records[0]
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, "A1", first.AssetTagID)
	assert.Equal(t, "Dell", first.Brand)
	assert.Equal(t, "2022-01-01", first.PurchaseDate)
	assert.Equal(t, "Latitude", first.Description)
	assert.Equal(t, "HQ", first.Get("Location"))

	// short rows are padded
	second := table.Records[1]
	assert.Equal(t, 2, second.Line)
	assert.Equal(t, "Printer", second.Category)
	assert.Equal(t, "", second.Status)
	assert.Equal(t, "", second.Get("Location"))
}

func TestLoad_TSV(t *testing.T) {
	content := "Asset Tag ID\tBrand\tCategory\tStatus\tPurchase Date\n" +
		"T1\tHP, Inc\tMonitor\tBroken\t2019-05-05\n"
	path := writeFile(t, "export.tsv", []byte(content))

	table, err := Load(path, testConfig())
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "HP, Inc", table.Records[0].Brand)
}

func TestLoad_Encodings(t *testing.T) {
	header := "Asset Tag ID,Brand,Category,Status,Purchase Date,Description\n"

	tests := []struct {
		name     string
		encoding string
		data     []byte
		want     string
		wantErr  error
	}{
		{
			name:     "auto utf-8",
			encoding: EncodingAuto,
			data:     []byte(header + "A1,Dell,Laptop,Available,2022-01-01,Café\n"),
			want:     "Café",
		},
		{
			name:     "auto strips bom",
			encoding: EncodingAuto,
			data:     append([]byte{0xEF, 0xBB, 0xBF}, []byte(header+"A1,Dell,Laptop,Available,2022-01-01,x\n")...),
			want:     "x",
		},
		{
			name:     "auto falls back to latin-1",
			encoding: EncodingAuto,
			data:     []byte(header + "A1,Dell,Laptop,Available,2022-01-01,Caf\xe9\n"),
			want:     "Café",
		},
		{
			name:     "explicit latin-1",
			encoding: EncodingLatin1,
			data:     []byte(header + "A1,Dell,Laptop,Available,2022-01-01,na\xefve\n"),
			want:     "naïve",
		},
		{
			name:     "windows-1252 quotes",
			encoding: EncodingWindows1252,
			data:     []byte(header + "A1,Dell,Laptop,Available,2022-01-01,\x93new\x94\n"),
			want:     "“new”",
		},
		{
			name:     "forced utf-8 rejects invalid bytes",
			encoding: EncodingUTF8,
			data:     []byte(header + "A1,Dell,Laptop,Available,2022-01-01,Caf\xe9\n"),
			wantErr:  apperrors.ErrUnreadableEncoding,
		},
		{
			name:     "unknown encoding",
			encoding: "ebcdic",
			data:     []byte(header),
			wantErr:  apperrors.ErrUnreadableEncoding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Encoding = tt.encoding

			table, err := ParseDelimited(tt.data, "test.csv", withDelimiter(cfg, ','))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, apperrors.KindInput, apperrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			require.Len(t, table.Records, 1)
			assert.Equal(t, tt.want, table.Records[0].Description)
			assert.Equal(t, "Asset Tag ID", table.Headers[0])
		})
	}
}

func TestLoad_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Inventory.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Asset Tag ID", "Brand", "Category", "Status", "Purchase Date", "Model"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"X1", "Lenovo", "Laptop", "Checked Out", "2021-03-04", "ThinkPad"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{"X2", "", "Tablet"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := Load(path, testConfig())
	require.NoError(t, err)
	require.Len(t, table.Records, 2)

	assert.Equal(t, "Lenovo", table.Records[0].Brand)
	assert.Equal(t, "ThinkPad", table.Records[0].Model)
	assert.Equal(t, "2021-03-04", table.Records[0].PurchaseDate)
	assert.Equal(t, "Tablet", table.Records[1].Category)
	assert.Equal(t, "", table.Records[1].Model)
}

func TestLoad_XLSXMissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Inventory.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := testConfig()
	cfg.Sheet = "Devices"

	_, err := Load(path, cfg)
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindInput, apperrors.KindOf(err))
}

func TestLoad_InputErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), testConfig())
		assert.Equal(t, apperrors.KindInput, apperrors.KindOf(err))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "inventory.pdf", []byte("x"))
		_, err := Load(path, testConfig())
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
	})

	t.Run("missing columns", func(t *testing.T) {
		path := writeFile(t, "inventory.csv", []byte("Asset Tag ID,Brand\nA1,Dell\n"))
		_, err := Load(path, testConfig())
		assert.ErrorIs(t, err, apperrors.ErrMissingColumns)
		assert.Contains(t, err.Error(), "category, status, purchase date")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "inventory.csv", []byte("\n\n"))
		_, err := Load(path, testConfig())
		assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
	})
}

func TestUniqueHeaders(t *testing.T) {
	got := uniqueHeaders([]string{" Brand ", "brand", "", "BRAND", "Model"})
	assert.Equal(t, []string{"Brand", "brand.1", "Unnamed: 2", "BRAND.2", "Model"}, got)
}

func TestBuildTable_DuplicateHeaderKeepsFirst(t *testing.T) {
	rows := [][]string{
		{"Asset Tag ID", "Brand", "Category", "Status", "Purchase Date", "Brand"},
		{"A1", "Dell", "Laptop", "Available", "2022-01-01", "Other"},
	}

	table, err := BuildTable("dup.csv", rows)
	require.NoError(t, err)
	assert.Equal(t, "Dell", table.Records[0].Brand)
	assert.Equal(t, "Other", table.Records[0].Get("Brand.1"))
}
