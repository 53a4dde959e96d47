package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReportWriter persists wide per-site reports. WriteSite is called once per
// processed site, Flush once at the end of the run. Report persistence is
// opt-in: a run without a ReportWriter still computes reports when asked but
// writes nothing.
type ReportWriter interface {
	WriteSite(report *SiteReport) error
	Flush() error
}

// CSVReportWriter writes each site report as <site id>_grades.csv in dir.
type CSVReportWriter struct {
	dir string
}

// NewCSVReportWriter builds a writer targeting dir.
func NewCSVReportWriter(dir string) *CSVReportWriter {
	return &CSVReportWriter{dir: dir}
}

// WriteSite writes one site's report file: header, student rows, legend.
func (w *CSVReportWriter) WriteSite(report *SiteReport) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(w.dir, sanitizeName(report.SiteID)+"_grades.csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(report.Header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	if err := cw.WriteAll(report.Rows); err != nil {
		return fmt.Errorf("failed to write report rows: %w", err)
	}
	if err := cw.WriteAll(report.Legend); err != nil {
		return fmt.Errorf("failed to write report legend: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush report %s: %w", path, err)
	}
	return file.Close()
}

// Flush is a no-op; each site report is written eagerly.
func (w *CSVReportWriter) Flush() error {
	return nil
}

// XLSXReportWriter collects site reports as sheets of a single workbook and
// saves it on Flush.
type XLSXReportWriter struct {
	path   string
	file   *excelize.File
	sheets int
}

// NewXLSXReportWriter builds a writer that saves the workbook to path.
func NewXLSXReportWriter(path string) *XLSXReportWriter {
	return &XLSXReportWriter{path: path, file: excelize.NewFile()}
}

// WriteSite adds one sheet holding the site's report.
func (w *XLSXReportWriter) WriteSite(report *SiteReport) error {
	sheet := sheetName(report.SiteID)
	if w.sheets == 0 {
		// Reuse the workbook's default sheet for the first site.
		if err := w.file.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
		}
	} else if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
	}
	w.sheets++

	line := 1
	write := func(row []string) error {
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		if err := w.file.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
		line++
		return nil
	}

	if err := write(report.Header); err != nil {
		return fmt.Errorf("failed to write sheet %s: %w", sheet, err)
	}
	for _, row := range append(append([][]string{}, report.Rows...), report.Legend...) {
		if err := write(row); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", sheet, err)
		}
	}
	return nil
}

// Flush saves the workbook. A run that processed no sites writes nothing.
func (w *XLSXReportWriter) Flush() error {
	if w.sheets == 0 {
		return nil
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save report workbook: %w", err)
	}
	return w.file.Close()
}

// sanitizeName makes a site id safe for file names.
func sanitizeName(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, id)
}

// sheetName makes a site id a legal Excel sheet name (31 chars max).
func sheetName(id string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '[', ']':
			return '-'
		}
		return r
	}, id)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
