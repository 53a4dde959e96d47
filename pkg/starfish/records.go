package starfish

import (
	"strconv"
	"time"
)

// Date and timestamp layouts used in the flat files.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// AssessmentHeader is the fixed column header of assessments.txt.
var AssessmentHeader = []string{
	"external_assessment_id",
	"external_section_id",
	"name",
	"description",
	"due_date",
	"points_possible",
	"is_counted",
	"is_aggregate",
	"reserved_flag",
}

// ScoreHeader is the fixed column header of scores.txt.
var ScoreHeader = []string{
	"external_assessment_id",
	"external_section_id",
	"student_external_id",
	"grade",
	"comment",
	"graded_timestamp",
}

// Assessment is one row of assessments.txt.
type Assessment struct {
	AssessmentID   string `validate:"required"`
	SectionID      string `validate:"required"`
	Name           string `validate:"required"`
	Description    string
	DueDate        string // YYYY-MM-DD or empty
	PointsPossible string `validate:"required"`
	IsCounted      int    `validate:"min=0,max=1"`
	IsAggregate    int    `validate:"min=0,max=1"`
	ReservedFlag   int    `validate:"min=0,max=1"`
}

// Row returns the record in assessments.txt column order.
func (a Assessment) Row() []string {
	return []string{
		a.AssessmentID,
		a.SectionID,
		a.Name,
		a.Description,
		a.DueDate,
		a.PointsPossible,
		strconv.Itoa(a.IsCounted),
		strconv.Itoa(a.IsAggregate),
		strconv.Itoa(a.ReservedFlag),
	}
}

// Score is one row of scores.txt. Comment is carried for column arity but is
// never populated by the exporter.
type Score struct {
	AssessmentID string `validate:"required"`
	SectionID    string `validate:"required"`
	StudentEID   string `validate:"required"`
	Grade        string
	Comment      string `validate:"len=0"`
	GradedAt     string // YYYY-MM-DD HH:mm:ss or empty
}

// Row returns the record in scores.txt column order.
func (s Score) Row() []string {
	return []string{
		s.AssessmentID,
		s.SectionID,
		s.StudentEID,
		s.Grade,
		s.Comment,
		s.GradedAt,
	}
}

// FormatPoints renders a decimal point value the way the flat files expect:
// no exponent, no trailing zeros ("5", "2.5", "100").
func FormatPoints(points float64) string {
	return strconv.FormatFloat(points, 'f', -1, 64)
}

// FormatDate renders an optional due date as YYYY-MM-DD, or "" when absent.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatTimestamp renders an optional graded timestamp, or "" when absent.
func FormatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(TimestampLayout)
}
