package sakai

import "time"

// PermissionViewOwnGrades is the site permission a user must hold to be
// included in the grade export.
const PermissionViewOwnGrades = "gradebook.viewOwnGrades"

// CourseSite is a single course offering instance. Personal workspaces and
// administrative sites are never CourseSites as far as the exporter is
// concerned; SiteDirectory filters them out.
type CourseSite struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	TermEID string `json:"term_eid"`
}

// EligibleUser is a site member holding PermissionViewOwnGrades. EID is the
// stable cross-system identifier carried into the score rows.
type EligibleUser struct {
	ID          string `json:"id"`
	EID         string `json:"eid"`
	DisplayName string `json:"display_name"`
	LastName    string `json:"last_name"`
}

// Assignment is a gradable item in a gradebook.
type Assignment struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Points         float64    `json:"points"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Counted        bool       `json:"counted"`
	ExternalSource string     `json:"external_source,omitempty"`
}

// GradeDefinition is one student's recorded grade for one assignment. Grade
// may be numeric or a letter, and may be empty when nothing was recorded.
type GradeDefinition struct {
	Grade    string     `json:"grade"`
	Recorded *time.Time `json:"recorded,omitempty"`
}

// Gradebook is the per-site container of assignments and grades.
type Gradebook struct {
	UID      string             `json:"uid"`
	SiteID   string             `json:"site_id"`
	GradeMap map[string]float64 `json:"grade_map,omitempty"`
}

// GradeMapping returns the letter-to-threshold map of the gradebook's
// selected grading scale. May be empty.
func (g *Gradebook) GradeMapping() map[string]float64 {
	return g.GradeMap
}
