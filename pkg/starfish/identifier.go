package starfish

// CourseGradeSuffix is the fixed identifier suffix of the synthetic Course
// Grade assessment emitted once per course site.
const CourseGradeSuffix = "CG"

// AssessmentID derives the composite assessment identifier joining a site to
// an assignment (or to the Course Grade marker). The result is stable across
// runs for stable inputs: siteID + "-" + suffix.
func AssessmentID(siteID, suffix string) string {
	return siteID + "-" + suffix
}

// SectionID returns the section identifier used to join assessment and score
// rows. The core uses the site id directly; a remapping hook can replace this
// if an institution keys sections differently.
func SectionID(siteID string) string {
	return siteID
}
