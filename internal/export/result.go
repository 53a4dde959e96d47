package export

import (
	"github.com/LongsightGroup/sakai-starfish-export/internal/sakai"
	"github.com/LongsightGroup/sakai-starfish-export/pkg/starfish"
)

// Outcome classifies how one site's aggregation ended.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// SkipReason names the expected, non-fatal reasons a site is skipped.
type SkipReason string

const (
	SkipNoEligibleUsers SkipReason = "no_eligible_users"
	SkipNoGradebook     SkipReason = "no_gradebook"
	SkipNoAssignments   SkipReason = "no_assignments"
)

// SiteExport holds the records one site contributes to the run.
type SiteExport struct {
	Assessments []starfish.Assessment
	Scores      []starfish.Score

	// Report is the wide per-site report, present only when report
	// building was requested and the site produced one.
	Report *SiteReport
}

// SiteResult is the discriminated outcome of processing one site. A skipped
// site carries a Reason; a failed site carries the Err and whatever records
// were built before the failure, so the caller chooses whether to commit the
// partial export.
type SiteResult struct {
	Site    sakai.CourseSite
	Outcome Outcome
	Reason  SkipReason
	Err     error
	Export  SiteExport
}

func processed(site sakai.CourseSite, export SiteExport) SiteResult {
	return SiteResult{Site: site, Outcome: OutcomeProcessed, Export: export}
}

func skipped(site sakai.CourseSite, reason SkipReason) SiteResult {
	return SiteResult{Site: site, Outcome: OutcomeSkipped, Reason: reason}
}

func failed(site sakai.CourseSite, err error, partial SiteExport) SiteResult {
	return SiteResult{Site: site, Outcome: OutcomeFailed, Err: err, Export: partial}
}
