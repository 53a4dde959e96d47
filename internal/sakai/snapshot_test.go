package sakai

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSnapshotFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSnapshot(t *testing.T) {
	path := writeSnapshotFile(t, `{
		"current_terms": ["FA24"],
		"sites": [
			{"id": "CHEM200", "title": "Organic Chemistry", "term_eid": "FA24"},
			{"id": "BIO101", "title": "Intro Biology", "term_eid": "FA24"},
			{"id": "~jdoe", "title": "John Doe Workspace", "term_eid": "FA24"}
		],
		"personal_or_system": ["~jdoe", "!admin"],
		"enrollments": {
			"BIO101": [{"id": "u1", "eid": "aadams", "display_name": "Alice Adams", "last_name": "Adams"}]
		},
		"gradebooks": {
			"BIO101": {"uid": "gb-bio101", "site_id": "BIO101", "grade_map": {"A": 90, "B": 80}}
		},
		"assignments": {
			"gb-bio101": [{"id": "Quiz1", "name": "Quiz 1", "points": 5, "counted": true}]
		},
		"grades": {
			"gb-bio101": {"Quiz1": {"u1": {"grade": "4", "recorded": "2024-10-02T09:30:00Z"}}}
		},
		"comments": {
			"gb-bio101": {"Quiz1": {"u1": "good work"}}
		}
	}`)

	snap, err := LoadSnapshot(path)
	require.NoError(t, err)
	ctx := context.Background()

	terms, err := snap.CurrentTerms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"FA24"}, terms)

	t.Run("sites ordered ascending by id", func(t *testing.T) {
		sites, err := snap.SitesForTerm(ctx, "FA24")
		require.NoError(t, err)
		require.Len(t, sites, 3)
		assert.Equal(t, "BIO101", sites[0].ID)
		assert.Equal(t, "CHEM200", sites[1].ID)
	})

	t.Run("personal and system site classification", func(t *testing.T) {
		assert.True(t, snap.IsPersonalOrSystemSite("~jdoe"))
		assert.True(t, snap.IsPersonalOrSystemSite("!admin"))
		assert.False(t, snap.IsPersonalOrSystemSite("BIO101"))
	})

	t.Run("eligible users only for export permission", func(t *testing.T) {
		users, err := snap.EligibleUsers(ctx, "BIO101", PermissionViewOwnGrades)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "aadams", users[0].EID)

		none, err := snap.EligibleUsers(ctx, "BIO101", "site.upd")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("gradebook lookup", func(t *testing.T) {
		gb, err := snap.GradebookFor(ctx, "BIO101")
		require.NoError(t, err)
		assert.Equal(t, "gb-bio101", gb.UID)
		assert.Equal(t, map[string]float64{"A": 90, "B": 80}, gb.GradeMapping())

		_, err = snap.GradebookFor(ctx, "CHEM200")
		assert.ErrorIs(t, err, ErrGradebookNotFound)
	})

	t.Run("grades and comments", func(t *testing.T) {
		gb, err := snap.GradebookFor(ctx, "BIO101")
		require.NoError(t, err)

		assignments, err := snap.Assignments(ctx, gb)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, "Quiz 1", assignments[0].Name)
		assert.True(t, assignments[0].Counted)

		gd, err := snap.GradeFor(ctx, gb, "Quiz1", "u1")
		require.NoError(t, err)
		assert.Equal(t, "4", gd.Grade)
		require.NotNil(t, gd.Recorded)
		assert.Equal(t, time.Date(2024, 10, 2, 9, 30, 0, 0, time.UTC), gd.Recorded.UTC())

		// Absent grade entries read as empty definitions.
		gd, err = snap.GradeFor(ctx, gb, "Quiz1", "nobody")
		require.NoError(t, err)
		assert.Empty(t, gd.Grade)
		assert.Nil(t, gd.Recorded)

		comment, err := snap.CommentFor(ctx, gb, "Quiz1", "u1")
		require.NoError(t, err)
		assert.Equal(t, "good work", comment)
	})
}

func TestLoadSnapshotErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeSnapshotFile(t, `{"sites": [`)
		_, err := LoadSnapshot(path)
		assert.Error(t, err)
	})
}

func TestCurrentTermsNeverNil(t *testing.T) {
	snap := &Snapshot{}
	terms, err := snap.CurrentTerms(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, terms)
	assert.Empty(t, terms)
}
