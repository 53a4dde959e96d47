// Package starfish defines the flat-file record contract consumed by the
// Starfish advising platform.
//
// The exporter produces two comma-delimited artifacts per run:
//
// assessments.txt: one Assessment row per gradebook assignment, plus one
// synthetic Course Grade row per course site.
//
// scores.txt: one Score row per (assignment, student) pair. The comment
// column is always empty in this export.
//
// Both record types carry fixed column headers and validate their required
// fields before serialization. Composite assessment identifiers are derived
// with AssessmentID so assessment and score rows join downstream.
package starfish
