package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Asset Tag ID", ColumnAssetTagID},
		{"  asset_tag_id ", ColumnAssetTagID},
		{"Purchase-Date", ColumnPurchaseDate},
		{"Device   Name", ColumnDeviceName},
		{"CPU", ColumnCPU},
		{"Serial No", "serial no"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalHeader(tt.in), tt.in)
	}
}

func TestRecord_GetSet(t *testing.T) {
	var r Record
	r.Set("Asset_Tag_ID", "A1")
	r.Set("BRAND", "Dell")
	r.Set("Description", "Latitude laptop")
	r.Set("Serial No", "SN-9")

	assert.Equal(t, "A1", r.AssetTagID)
	assert.Equal(t, "Dell", r.Get("brand"))
	assert.Equal(t, "Latitude laptop", r.Get("description"))
	assert.Equal(t, "SN-9", r.Get("Serial No"))
	assert.Equal(t, "", r.Get("Room"))
}

func TestTable_MissingColumns(t *testing.T) {
	table := &Table{Headers: []string{"Asset Tag ID", "brand", "Status"}}

	assert.True(t, table.HasColumn(ColumnBrand))
	assert.False(t, table.HasColumn(ColumnCategory))
	assert.Equal(t, []string{ColumnCategory, ColumnPurchaseDate}, table.MissingColumns())

	table.Headers = append(table.Headers, "Category", "Purchase Date")
	assert.Empty(t, table.MissingColumns())
}

func TestRecovery_Outcome(t *testing.T) {
	tests := []struct {
		name      string
		r         Recovery
		outcome   string
		notes     string
		corrected bool
	}{
		{"both", Recovery{Brand: "Dell", Category: "Laptop", BrandSource: "Description", CategorySource: "Model"},
			"both", "Brand from Description; Category from Model", true},
		{"brand only", Recovery{Brand: "Dell", BrandSource: "Description"},
			"brand", "Brand from Description", false},
		{"category filled, brand present", Recovery{Brand: "HP", Category: "Printer", CategorySource: "Device Name"},
			"category", "Category from Device Name", true},
		{"nothing", Recovery{}, "none", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.outcome, tt.r.Outcome())
			assert.Equal(t, tt.notes, tt.r.Notes())
			assert.Equal(t, tt.corrected, tt.r.Corrected())
			assert.Equal(t, tt.outcome != "none", tt.r.RecoveredAny())
		})
	}
}

func TestAssessment_EffectiveValues(t *testing.T) {
	a := Assessment{NormalizedBrand: "", NormalizedCategory: "Laptop"}
	a.Recovery = &Recovery{Brand: "Lenovo", Category: "Laptop", BrandSource: "Description"}

	assert.Equal(t, "", a.EffectiveBrand())
	a.Recovered = true
	assert.Equal(t, "Lenovo", a.EffectiveBrand())
	assert.Equal(t, "Laptop", a.EffectiveCategory())
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "Future Date", DateFuture.String())
	assert.Equal(t, "HIGH RISK", RiskHigh.String())
	assert.Equal(t, "Invalid Purchase Date (Too Old)", InvalidDateIssue(DateTooOld))
	assert.Equal(t, "Inactive Status (INACTIVE (Broken))", InactiveStatusIssue("INACTIVE (Broken)"))
}
