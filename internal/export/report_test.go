package export

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/LongsightGroup/sakai-starfish-export/internal/sakai"
)

func sampleReport() *SiteReport {
	site := sakai.CourseSite{ID: "BIO101", Title: "Intro Biology"}
	gb := &sakai.Gradebook{
		UID:      "gb-bio101",
		SiteID:   "BIO101",
		GradeMap: map[string]float64{"A": 90, "B": 80, "F": 0},
	}
	assignments := []sakai.Assignment{
		{ID: "Quiz1", Name: "Quiz 1", Points: 5, Counted: true},
	}
	users := []sakai.EligibleUser{
		{ID: "u-adams", EID: "aadams", DisplayName: "Alice Adams", LastName: "Adams"},
	}
	cells := [][]reportCell{
		{{grade: "4", comment: "solid start"}},
	}
	return buildSiteReport(site, gb, assignments, users, cells, slog.Default())
}

func TestBuildSiteReportShape(t *testing.T) {
	report := sampleReport()

	assert.Equal(t, "BIO101", report.SiteID)
	assert.Equal(t, "Intro Biology", report.SiteTitle)

	width := len(report.Header)
	for _, row := range report.Rows {
		assert.Len(t, row, width, "data rows padded to header width")
	}
	for _, row := range report.Legend {
		assert.Len(t, row, width, "legend rows padded to header width")
	}
}

func TestBuildSiteReportLegend(t *testing.T) {
	report := sampleReport()
	require.Len(t, report.Legend, 4)

	width := len(report.Header)
	assert.Equal(t, padRow(nil, width), report.Legend[0], "spacer row")
	assert.Equal(t, "Site ID", report.Legend[1][0])
	assert.Equal(t, "BIO101", report.Legend[1][1])
	assert.Equal(t, "Site Title", report.Legend[2][0])
	assert.Equal(t, "Intro Biology", report.Legend[2][1])
	assert.Equal(t, "Mappings", report.Legend[3][0])
	assert.Equal(t, "A=90,B=80,F=0", report.Legend[3][1], "thresholds descending")
}

func TestFormatGradeMapping(t *testing.T) {
	tests := []struct {
		name     string
		mapping  map[string]float64
		expected string
	}{
		{
			"descending thresholds",
			map[string]float64{"C": 70, "A": 90, "B": 80},
			"A=90,B=80,C=70",
		},
		{
			"fractional thresholds",
			map[string]float64{"A-": 89.5, "A": 93},
			"A=93,A-=89.5",
		},
		{
			"equal thresholds fall back to label order",
			map[string]float64{"P": 50, "S": 50},
			"P=50,S=50",
		},
		{"empty mapping", map[string]float64{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatGradeMapping(tt.mapping))
		})
	}
}

func TestCSVReportWriter(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVReportWriter(dir)

	report := sampleReport()
	require.NoError(t, writer.WriteSite(report))
	require.NoError(t, writer.Flush())

	file, err := os.Open(filepath.Join(dir, "BIO101_grades.csv"))
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	expected := 1 + len(report.Rows) + len(report.Legend)
	require.Len(t, rows, expected)
	assert.Equal(t, report.Header, rows[0])
	assert.Equal(t, report.Rows[0], rows[1])
	assert.Equal(t, report.Legend[3], rows[len(rows)-1])
}

func TestXLSXReportWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site_grades.xlsx")
	writer := NewXLSXReportWriter(path)

	report := sampleReport()
	require.NoError(t, writer.WriteSite(report))
	require.NoError(t, writer.Flush())

	book, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer book.Close()

	require.Equal(t, []string{"BIO101"}, book.GetSheetList())

	rows, err := book.GetRows("BIO101")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, report.Header, rows[0])
	assert.Equal(t, "aadams", rows[1][0])
}

func TestXLSXReportWriterNoSites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site_grades.xlsx")
	writer := NewXLSXReportWriter(path)

	require.NoError(t, writer.Flush())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no workbook without processed sites")
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "BIO101", sheetName("BIO101"))
	assert.Equal(t, "a-b-c", sheetName("a/b:c"))
	assert.Len(t, sheetName("averyverylongsiteidentifierthatwillnotfit"), 31)
}
