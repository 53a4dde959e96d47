// Package sakai defines the upstream domain model and the collaborator
// contracts the export pipeline consumes: academic terms, course sites, site
// enrollments, and gradebooks.
//
// Only the contracts live here. Production implementations bind to the host
// LMS; Snapshot is a file-backed implementation of all four contracts used by
// the CLI for offline exports and by tests as a fixture.
package sakai
