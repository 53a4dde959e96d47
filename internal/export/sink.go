package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/LongsightGroup/sakai-starfish-export/pkg/starfish"
)

// Output artifact names, fixed by the Starfish intake contract.
const (
	AssessmentsFileName = "assessments.txt"
	ScoresFileName      = "scores.txt"
)

// Sink accumulates every record emitted during a run and writes the two
// output artifacts once at the end. Records are appended in traversal order
// and never reordered.
//
// Assessments are flushed before scores, so a serialization failure in the
// scores artifact can leave assessments.txt persisted alone. That
// inconsistency is accepted; the failure still surfaces as a fatal RunError.
type Sink struct {
	dir         string
	validate    *validator.Validate
	assessments []starfish.Assessment
	scores      []starfish.Score
	logger      *slog.Logger
}

// NewSink builds a sink writing into dir.
func NewSink(dir string, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		dir:      dir,
		validate: validator.New(),
		logger:   logger,
	}
}

// RemoveStale deletes previous output artifacts so that a crashed run leaves
// no fresh-looking files behind. A deletion failure aborts the run.
func (s *Sink) RemoveStale() error {
	for _, name := range []string{AssessmentsFileName, ScoresFileName} {
		path := filepath.Join(s.dir, name)
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return NewWriteAbortedError(name, fmt.Errorf("failed to stat stale output: %w", err))
		}
		if info.IsDir() {
			return NewWriteAbortedError(name, fmt.Errorf("output path %s is a directory", path))
		}
		if err := os.Remove(path); err != nil {
			return NewWriteAbortedError(name, fmt.Errorf("failed to remove stale output: %w", err))
		}
		s.logger.Debug("removed stale output", slog.String("path", path))
	}
	return nil
}

// Append adds one site's records to the run sequences.
func (s *Sink) Append(export SiteExport) {
	s.assessments = append(s.assessments, export.Assessments...)
	s.scores = append(s.scores, export.Scores...)
}

// Assessments returns a copy of the accumulated assessment sequence.
func (s *Sink) Assessments() []starfish.Assessment {
	out := make([]starfish.Assessment, len(s.assessments))
	copy(out, s.assessments)
	return out
}

// Scores returns a copy of the accumulated score sequence.
func (s *Sink) Scores() []starfish.Score {
	out := make([]starfish.Score, len(s.scores))
	copy(out, s.scores)
	return out
}

// Flush writes both artifacts. Both files are opened before any row is
// written, so an open failure on either aborts before assessments.txt gains
// content. Any error is fatal to the run.
func (s *Sink) Flush() error {
	assessmentsPath := filepath.Join(s.dir, AssessmentsFileName)
	scoresPath := filepath.Join(s.dir, ScoresFileName)

	assessmentsFile, err := os.Create(assessmentsPath)
	if err != nil {
		return NewWriteAbortedError(AssessmentsFileName, err)
	}
	defer assessmentsFile.Close()

	scoresFile, err := os.Create(scoresPath)
	if err != nil {
		return NewWriteAbortedError(ScoresFileName, err)
	}
	defer scoresFile.Close()

	rows := make([][]string, 0, len(s.assessments))
	for _, record := range s.assessments {
		if err := s.validate.Struct(record); err != nil {
			return NewSerializationError(AssessmentsFileName, fmt.Errorf("assessment %s: %w", record.AssessmentID, err))
		}
		rows = append(rows, record.Row())
	}
	if err := writeRows(assessmentsFile, starfish.AssessmentHeader, rows); err != nil {
		return NewWriteAbortedError(AssessmentsFileName, err)
	}

	rows = rows[:0]
	for _, record := range s.scores {
		if err := s.validate.Struct(record); err != nil {
			return NewSerializationError(ScoresFileName, fmt.Errorf("score %s/%s: %w", record.AssessmentID, record.StudentEID, err))
		}
		rows = append(rows, record.Row())
	}
	if err := writeRows(scoresFile, starfish.ScoreHeader, rows); err != nil {
		return NewWriteAbortedError(ScoresFileName, err)
	}

	s.logger.Info("output artifacts written",
		slog.String("dir", s.dir),
		slog.Int("assessments", len(s.assessments)),
		slog.Int("scores", len(s.scores)))
	return nil
}

func writeRows(file *os.File, header []string, rows [][]string) error {
	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	return file.Close()
}
