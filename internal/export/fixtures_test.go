package export

import (
	"context"
	"errors"
	"time"

	"github.com/LongsightGroup/sakai-starfish-export/internal/sakai"
)

// bioSnapshot is the FA24 fixture: site BIO101 with two eligible users and
// one counted assignment worth 5 points, plus sites exercising each skip
// reason and a personal workspace the selector must exclude.
func bioSnapshot() *sakai.Snapshot {
	graded := time.Date(2024, 10, 2, 9, 30, 0, 0, time.UTC)
	return &sakai.Snapshot{
		Terms: []string{"FA24"},
		Sites: []sakai.CourseSite{
			{ID: "BIO101", Title: "Intro Biology", TermEID: "FA24"},
			{ID: "EMPTY300", Title: "No Enrollments", TermEID: "FA24"},
			{ID: "NOGB400", Title: "No Gradebook", TermEID: "FA24"},
			{ID: "BARE500", Title: "Empty Gradebook", TermEID: "FA24"},
			{ID: "~jdoe", Title: "John Doe Workspace", TermEID: "FA24"},
		},
		NonCourse: []string{"~jdoe"},
		Enrollments: map[string][]sakai.EligibleUser{
			"BIO101": {
				{ID: "u-zim", EID: "zzim", DisplayName: "Zed Zimmerman", LastName: "Zimmerman"},
				{ID: "u-adams", EID: "aadams", DisplayName: "Alice Adams", LastName: "Adams"},
			},
			"NOGB400": {
				{ID: "u-1", EID: "one", DisplayName: "One Only", LastName: "Only"},
			},
			"BARE500": {
				{ID: "u-1", EID: "one", DisplayName: "One Only", LastName: "Only"},
			},
		},
		Gradebooks: map[string]*sakai.Gradebook{
			"BIO101": {
				UID:    "gb-bio101",
				SiteID: "BIO101",
				GradeMap: map[string]float64{
					"A": 90, "B": 80, "C": 70, "D": 60, "F": 0,
				},
			},
			"BARE500": {UID: "gb-bare500", SiteID: "BARE500"},
		},
		Items: map[string][]sakai.Assignment{
			"gb-bio101": {
				{ID: "Quiz1", Name: "Quiz 1", Points: 5, Counted: true},
			},
		},
		Grades: map[string]map[string]map[string]sakai.GradeDefinition{
			"gb-bio101": {
				"Quiz1": {
					"u-adams": {Grade: "4", Recorded: &graded},
				},
			},
		},
		Comments: map[string]map[string]map[string]string{
			"gb-bio101": {
				"Quiz1": {
					"u-adams": "solid start",
				},
			},
		},
	}
}

// gradeFailer wraps a snapshot and fails grade lookups for one assignment.
type gradeFailer struct {
	*sakai.Snapshot
	failAssignment string
}

var errGradeService = errors.New("grade service unavailable")

func (f *gradeFailer) GradeFor(ctx context.Context, gb *sakai.Gradebook, assignmentID, userID string) (sakai.GradeDefinition, error) {
	if assignmentID == f.failAssignment {
		return sakai.GradeDefinition{}, errGradeService
	}
	return f.Snapshot.GradeFor(ctx, gb, assignmentID, userID)
}
