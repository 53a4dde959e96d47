package export

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/LongsightGroup/sakai-starfish-export/internal/sakai"
	"github.com/LongsightGroup/sakai-starfish-export/pkg/starfish"
)

// SiteReport is the wide per-site grade report: one row per student with a
// grade and a comment column per assignment, followed by a legend block
// identifying the site and its grading scale. Building a report and writing
// it somewhere are separate operations; see ReportWriter.
type SiteReport struct {
	SiteID    string
	SiteTitle string
	Header    []string
	Rows      [][]string
	Legend    [][]string
}

// reportCell is one student's grade and comment for one assignment.
type reportCell struct {
	grade   string
	comment string
}

// buildSiteReport assembles the wide table for one processed site. Rows are
// padded to header width; a row that still mismatches is logged and emitted
// anyway.
func buildSiteReport(site sakai.CourseSite, gb *sakai.Gradebook, assignments []sakai.Assignment, users []sakai.EligibleUser, cells [][]reportCell, logger *slog.Logger) *SiteReport {
	header := make([]string, 0, 2*len(assignments)+4)
	header = append(header, "Student ID", "Student Name")
	for _, a := range assignments {
		header = append(header, a.Name+" ["+starfish.FormatPoints(a.Points)+"]", "Comments")
	}
	header = append(header, "Total Points Earned [Points Possible]", "Course Grade")

	rows := make([][]string, 0, len(users))
	for ui, user := range users {
		row := make([]string, 0, len(header))
		row = append(row, user.EID, user.DisplayName)
		for ai := range assignments {
			row = append(row, cells[ui][ai].grade, cells[ui][ai].comment)
		}
		// Total points and course grade have no defined source in this
		// export; their cells stay empty.
		row = padRow(row, len(header))

		if len(row) != len(header) {
			logger.Error("report row width differs from header",
				slog.Int("row_size", len(row)),
				slog.Int("header_size", len(header)))
		}
		rows = append(rows, row)
	}

	return &SiteReport{
		SiteID:    site.ID,
		SiteTitle: site.Title,
		Header:    header,
		Rows:      rows,
		Legend:    legendRows(site, gb, len(header)),
	}
}

// legendRows returns the four trailing rows, each padded to header width: a
// spacer, the site id, the site title, and the grade-mapping legend.
func legendRows(site sakai.CourseSite, gb *sakai.Gradebook, width int) [][]string {
	return [][]string{
		padRow(nil, width),
		padRow([]string{"Site ID", site.ID}, width),
		padRow([]string{"Site Title", site.Title}, width),
		padRow([]string{"Mappings", formatGradeMapping(gb.GradeMapping())}, width),
	}
}

// formatGradeMapping renders the grading scale as comma-joined
// "letter=threshold" pairs, ordered by threshold descending. Equal
// thresholds fall back to label order to keep output deterministic.
func formatGradeMapping(mapping map[string]float64) string {
	labels := make([]string, 0, len(mapping))
	for label := range mapping {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if mapping[labels[i]] != mapping[labels[j]] {
			return mapping[labels[i]] > mapping[labels[j]]
		}
		return labels[i] < labels[j]
	})

	pairs := make([]string, 0, len(labels))
	for _, label := range labels {
		pairs = append(pairs, label+"="+starfish.FormatPoints(mapping[label]))
	}
	return strings.Join(pairs, ",")
}

func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}
