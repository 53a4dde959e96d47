// Package export implements the Starfish gradebook export pipeline.
//
// A run traverses terms, then course sites within a term, then assignments
// within a site, then eligible users within an assignment, building flat
// assessment and score records along the way:
//
//	TermResolver -> SiteSelector -> Aggregator -> Sink
//
// Per-site processing is failure isolated: the Aggregator returns a
// discriminated SiteResult (processed, skipped with a reason, or failed) and
// the Runner's loop decides what each outcome means for the run. Only writer
// I/O and record serialization errors abort a run.
//
// The Aggregator can additionally build a wide per-site report (grades plus
// grader comments and a grade-mapping legend). Computing the report and
// persisting it are separate concerns: the report travels inside the site's
// SiteExport and is only written out when the Runner is given a ReportWriter.
package export
