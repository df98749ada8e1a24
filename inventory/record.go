package inventory

import (
	"strings"
)

// Canonical column keys. Source headers are matched against them after CanonicalHeader.
const (
	ColumnAssetTagID   = "asset tag id"
	ColumnBrand        = "brand"
	ColumnCategory     = "category"
	ColumnStatus       = "status"
	ColumnPurchaseDate = "purchase date"
	ColumnDescription  = "description"
	ColumnDeviceName   = "device name"
	ColumnModel        = "model"
	ColumnOS           = "os"
	ColumnCPU          = "cpu"
)

// RequiredColumns columns without which a table cannot be assessed
var RequiredColumns = []string{
	ColumnAssetTagID,
	ColumnBrand,
	ColumnCategory,
	ColumnStatus,
	ColumnPurchaseDate,
}

// Record one inventory row as read from the source. Never modified after load.
type Record struct {
	Line int // 1-based data row in the source, header excluded

	AssetTagID   string
	Brand        string
	Category     string
	Status       string
	PurchaseDate string

	// Free text used by recovery
	Description string
	DeviceName  string
	Model       string
	OS          string
	CPU         string

	// Extra pass-through columns keyed by source header
	Extra map[string]string
}

// Get returns the raw cell for a source header
func (r Record) Get(header string) string {
	switch CanonicalHeader(header) {
	case ColumnAssetTagID:
		return r.AssetTagID
	case ColumnBrand:
		return r.Brand
	case ColumnCategory:
		return r.Category
	case ColumnStatus:
		return r.Status
	case ColumnPurchaseDate:
		return r.PurchaseDate
	case ColumnDescription:
		return r.Description
	case ColumnDeviceName:
		return r.DeviceName
	case ColumnModel:
		return r.Model
	case ColumnOS:
		return r.OS
	case ColumnCPU:
		return r.CPU
	}
	return r.Extra[header]
}

// Set assigns a cell by source header. Used by loaders while building the record.
func (r *Record) Set(header, value string) {
	switch CanonicalHeader(header) {
	case ColumnAssetTagID:
		r.AssetTagID = value
	case ColumnBrand:
		r.Brand = value
	case ColumnCategory:
		r.Category = value
	case ColumnStatus:
		r.Status = value
	case ColumnPurchaseDate:
		r.PurchaseDate = value
	case ColumnDescription:
		r.Description = value
	case ColumnDeviceName:
		r.DeviceName = value
	case ColumnModel:
		r.Model = value
	case ColumnOS:
		r.OS = value
	case ColumnCPU:
		r.CPU = value
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[header] = value
	}
}

// Table a fully loaded record set
type Table struct {
	Source  string
	Headers []string
	Records []Record
}

// HasColumn reports whether the table carries a header with the canonical key
func (t *Table) HasColumn(key string) bool {
	for _, h := range t.Headers {
		if CanonicalHeader(h) == key {
			return true
		}
	}
	return false
}

// MissingColumns returns required keys that no header maps to
func (t *Table) MissingColumns() []string {
	var missing []string
	for _, key := range RequiredColumns {
		if !t.HasColumn(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

// CanonicalHeader trims, lowercases, treats '_' and '-' as spaces and collapses runs of whitespace
func CanonicalHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.NewReplacer("_", " ", "-", " ").Replace(h)
	return strings.Join(strings.Fields(h), " ")
}
