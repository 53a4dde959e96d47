package sakai

import (
	"context"
	"errors"
)

// ErrGradebookNotFound reports that a site has no gradebook. The aggregator
// treats it as an expected skip, not a failure.
var ErrGradebookNotFound = errors.New("sakai: gradebook not found")

// TermProvider reports the currently active academic terms.
type TermProvider interface {
	// CurrentTerms returns the set of active term codes. Implementations
	// must return an empty slice, never nil, when no term is active.
	CurrentTerms(ctx context.Context) ([]string, error)
}

// SiteDirectory lists and classifies course sites.
type SiteDirectory interface {
	// SitesForTerm returns the sites whose term property equals termEID,
	// ordered ascending by site id.
	SitesForTerm(ctx context.Context, termEID string) ([]CourseSite, error)

	// IsPersonalOrSystemSite reports whether siteID is a personal workspace
	// or an administrative/special site, which the export excludes.
	IsPersonalOrSystemSite(siteID string) bool
}

// EnrollmentDirectory resolves site membership by permission.
type EnrollmentDirectory interface {
	// EligibleUsers returns the members of the site holding the given
	// permission, in the directory's natural order.
	EligibleUsers(ctx context.Context, siteID, permission string) ([]EligibleUser, error)
}

// GradebookProvider exposes a site's gradebook, assignments and grades.
type GradebookProvider interface {
	// GradebookFor returns the site's gradebook, or ErrGradebookNotFound.
	GradebookFor(ctx context.Context, siteID string) (*Gradebook, error)

	// Assignments returns the gradebook's assignments in their natural
	// fetch order. The exporter never re-sorts them.
	Assignments(ctx context.Context, gb *Gradebook) ([]Assignment, error)

	// GradeFor returns one student's grade definition for one assignment.
	GradeFor(ctx context.Context, gb *Gradebook, assignmentID, userID string) (GradeDefinition, error)

	// CommentFor returns the grader's comment for one student on one
	// assignment, or "" when none exists. Used only by the wide report.
	CommentFor(ctx context.Context, gb *Gradebook, assignmentID, userID string) (string, error)
}
