package sakai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Snapshot is a file-backed implementation of all four collaborator
// contracts. It lets the exporter run against an extracted copy of the
// enrollment and gradebook data instead of a live LMS, and doubles as the
// fixture implementation in tests.
type Snapshot struct {
	Terms       []string                                         `json:"current_terms"`
	Sites       []CourseSite                                     `json:"sites"`
	NonCourse   []string                                         `json:"personal_or_system,omitempty"`
	Enrollments map[string][]EligibleUser                        `json:"enrollments,omitempty"`
	Gradebooks  map[string]*Gradebook                            `json:"gradebooks,omitempty"`
	Items       map[string][]Assignment                          `json:"assignments,omitempty"`
	Grades      map[string]map[string]map[string]GradeDefinition `json:"grades,omitempty"`
	Comments    map[string]map[string]map[string]string          `json:"comments,omitempty"`

	nonCourse map[string]struct{}
}

// LoadSnapshot reads and indexes a snapshot from a JSON file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	snap.index()
	return &snap, nil
}

func (s *Snapshot) index() {
	s.nonCourse = make(map[string]struct{}, len(s.NonCourse))
	for _, id := range s.NonCourse {
		s.nonCourse[id] = struct{}{}
	}
}

// CurrentTerms implements TermProvider. The result is never nil.
func (s *Snapshot) CurrentTerms(ctx context.Context) ([]string, error) {
	terms := make([]string, 0, len(s.Terms))
	terms = append(terms, s.Terms...)
	return terms, nil
}

// SitesForTerm implements SiteDirectory, ordering results ascending by id.
func (s *Snapshot) SitesForTerm(ctx context.Context, termEID string) ([]CourseSite, error) {
	var sites []CourseSite
	for _, site := range s.Sites {
		if site.TermEID == termEID {
			sites = append(sites, site)
		}
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].ID < sites[j].ID })
	return sites, nil
}

// IsPersonalOrSystemSite implements SiteDirectory.
func (s *Snapshot) IsPersonalOrSystemSite(siteID string) bool {
	if s.nonCourse == nil {
		s.index()
	}
	_, ok := s.nonCourse[siteID]
	return ok
}

// EligibleUsers implements EnrollmentDirectory. The snapshot records only
// users holding the export permission, so any other permission is empty.
func (s *Snapshot) EligibleUsers(ctx context.Context, siteID, permission string) ([]EligibleUser, error) {
	if permission != PermissionViewOwnGrades {
		return nil, nil
	}
	return s.Enrollments[siteID], nil
}

// GradebookFor implements GradebookProvider.
func (s *Snapshot) GradebookFor(ctx context.Context, siteID string) (*Gradebook, error) {
	gb, ok := s.Gradebooks[siteID]
	if !ok {
		return nil, fmt.Errorf("site %s: %w", siteID, ErrGradebookNotFound)
	}
	return gb, nil
}

// Assignments implements GradebookProvider, preserving snapshot order.
func (s *Snapshot) Assignments(ctx context.Context, gb *Gradebook) ([]Assignment, error) {
	return s.Items[gb.UID], nil
}

// GradeFor implements GradebookProvider. A missing entry is an empty grade,
// not an error.
func (s *Snapshot) GradeFor(ctx context.Context, gb *Gradebook, assignmentID, userID string) (GradeDefinition, error) {
	return s.Grades[gb.UID][assignmentID][userID], nil
}

// CommentFor implements GradebookProvider.
func (s *Snapshot) CommentFor(ctx context.Context, gb *Gradebook, assignmentID, userID string) (string, error) {
	return s.Comments[gb.UID][assignmentID][userID], nil
}
