package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/time/rate"

	"github.com/LongsightGroup/sakai-starfish-export/internal/sakai"
	"github.com/LongsightGroup/sakai-starfish-export/pkg/starfish"
)

// Aggregator turns one course site into flat assessment and score records.
//
// Per-site flow: fetch eligible users, fetch the gradebook, fetch its
// assignments, then one grade lookup per (assignment, user) pair. A missing
// gradebook and empty user or assignment lists are expected skips; anything
// else ends the site as failed, carrying the records built up to that point
// so the caller can preserve the documented partial-emission behavior.
type Aggregator struct {
	enrollment sakai.EnrollmentDirectory
	gradebooks sakai.GradebookProvider
	limiter    *rate.Limiter
	reports    bool
	logger     *slog.Logger
}

// AggregatorOptions are the optional aggregator collaborators.
type AggregatorOptions struct {
	// Limiter throttles grade and comment lookups when set.
	Limiter *rate.Limiter

	// BuildReports enables the wide per-site report.
	BuildReports bool

	Logger *slog.Logger
}

// NewAggregator builds an aggregator over the enrollment and gradebook
// services.
func NewAggregator(enrollment sakai.EnrollmentDirectory, gradebooks sakai.GradebookProvider, opts AggregatorOptions) *Aggregator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		enrollment: enrollment,
		gradebooks: gradebooks,
		limiter:    opts.Limiter,
		reports:    opts.BuildReports,
		logger:     logger,
	}
}

// ProcessSite runs the per-site state machine and returns its outcome. It
// never returns an error; failures are carried inside the result.
func (a *Aggregator) ProcessSite(ctx context.Context, site sakai.CourseSite) SiteResult {
	logger := a.logger.With(slog.String("site_id", site.ID))
	logger.Debug("processing site", slog.String("title", site.Title))

	fetched, err := a.enrollment.EligibleUsers(ctx, site.ID, sakai.PermissionViewOwnGrades)
	if err != nil {
		return failed(site, fmt.Errorf("failed to fetch eligible users: %w", err), SiteExport{})
	}
	users := sortedByLastName(fetched)
	if len(users) == 0 {
		return skipped(site, SkipNoEligibleUsers)
	}

	gb, err := a.gradebooks.GradebookFor(ctx, site.ID)
	if err != nil {
		if errors.Is(err, sakai.ErrGradebookNotFound) {
			return skipped(site, SkipNoGradebook)
		}
		return failed(site, fmt.Errorf("failed to fetch gradebook: %w", err), SiteExport{})
	}

	assignments, err := a.gradebooks.Assignments(ctx, gb)
	if err != nil {
		return failed(site, fmt.Errorf("failed to fetch assignments: %w", err), SiteExport{})
	}
	if len(assignments) == 0 {
		return skipped(site, SkipNoAssignments)
	}
	logger.Debug("assignments fetched", slog.Int("count", len(assignments)))

	sectionID := starfish.SectionID(site.ID)
	export := SiteExport{
		Assessments: make([]starfish.Assessment, 0, len(assignments)+1),
		Scores:      make([]starfish.Score, 0, len(assignments)*len(users)),
	}

	var cells [][]reportCell
	if a.reports {
		cells = make([][]reportCell, len(users))
		for i := range cells {
			cells[i] = make([]reportCell, len(assignments))
		}
	}

	for ai, assignment := range assignments {
		assessmentID := starfish.AssessmentID(site.ID, assignment.ID)
		export.Assessments = append(export.Assessments, buildAssessment(assessmentID, sectionID, assignment))

		for ui, user := range users {
			if err := a.wait(ctx); err != nil {
				return failed(site, err, export)
			}
			gd, err := a.gradebooks.GradeFor(ctx, gb, assignment.ID, user.ID)
			if err != nil {
				return failed(site, fmt.Errorf("failed to fetch grade for %s on %s: %w", user.EID, assignment.ID, err), export)
			}
			export.Scores = append(export.Scores, starfish.Score{
				AssessmentID: assessmentID,
				SectionID:    sectionID,
				StudentEID:   user.EID,
				Grade:        gd.Grade,
				GradedAt:     starfish.FormatTimestamp(gd.Recorded),
			})

			if a.reports {
				comment, err := a.gradebooks.CommentFor(ctx, gb, assignment.ID, user.ID)
				if err != nil {
					return failed(site, fmt.Errorf("failed to fetch comment for %s on %s: %w", user.EID, assignment.ID, err), export)
				}
				cells[ui][ai] = reportCell{grade: gd.Grade, comment: comment}
			}
		}
	}

	// The synthetic Course Grade assessment closes out every processed
	// site. It carries no score rows: no course-grade source is defined
	// for this export.
	export.Assessments = append(export.Assessments, courseGradeAssessment(site.ID, sectionID))

	if a.reports {
		export.Report = buildSiteReport(site, gb, assignments, users, cells, logger)
	}

	logger.Debug("site processed",
		slog.Int("assessments", len(export.Assessments)),
		slog.Int("scores", len(export.Scores)))
	return processed(site, export)
}

func (a *Aggregator) wait(ctx context.Context) error {
	if a.limiter == nil {
		return nil
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait interrupted: %w", err)
	}
	return nil
}

func buildAssessment(assessmentID, sectionID string, a sakai.Assignment) starfish.Assessment {
	description := ""
	if a.ExternalSource != "" {
		description = "From " + a.ExternalSource
	}
	counted := 0
	if a.Counted {
		counted = 1
	}
	return starfish.Assessment{
		AssessmentID:   assessmentID,
		SectionID:      sectionID,
		Name:           a.Name,
		Description:    description,
		DueDate:        starfish.FormatDate(a.DueDate),
		PointsPossible: starfish.FormatPoints(a.Points),
		IsCounted:      counted,
	}
}

func courseGradeAssessment(siteID, sectionID string) starfish.Assessment {
	return starfish.Assessment{
		AssessmentID:   starfish.AssessmentID(siteID, starfish.CourseGradeSuffix),
		SectionID:      sectionID,
		Name:           "Course Grade",
		Description:    "Calculated Course Grade",
		PointsPossible: "100",
		IsAggregate:    1,
		ReservedFlag:   1,
	}
}

// sortedByLastName copies users and orders the copy by ordinal last-name
// comparison. The sort is stable so users with equal last names keep their
// fetch order.
func sortedByLastName(fetched []sakai.EligibleUser) []sakai.EligibleUser {
	users := make([]sakai.EligibleUser, len(fetched))
	copy(users, fetched)
	sort.SliceStable(users, func(i, j int) bool {
		return strings.Compare(users[i].LastName, users[j].LastName) < 0
	})
	return users
}
