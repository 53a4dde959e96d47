package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LongsightGroup/sakai-starfish-export/internal/sakai"
)

// SiteSelector lists the course sites of a term, excluding personal
// workspaces and administrative sites.
type SiteSelector struct {
	directory sakai.SiteDirectory
	logger    *slog.Logger
}

// NewSiteSelector builds a selector over the given directory.
func NewSiteSelector(directory sakai.SiteDirectory, logger *slog.Logger) *SiteSelector {
	if logger == nil {
		logger = slog.Default()
	}
	return &SiteSelector{directory: directory, logger: logger}
}

// Select returns the term's course sites in the directory's ascending site
// id order, deterministic for a given directory snapshot.
func (s *SiteSelector) Select(ctx context.Context, termEID string) ([]sakai.CourseSite, error) {
	all, err := s.directory.SitesForTerm(ctx, termEID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites for term %s: %w", termEID, err)
	}

	sites := make([]sakai.CourseSite, 0, len(all))
	for _, site := range all {
		if s.directory.IsPersonalOrSystemSite(site.ID) {
			s.logger.Debug("excluding non-course site", slog.String("site_id", site.ID))
			continue
		}
		sites = append(sites, site)
	}

	s.logger.Info("sites to process for term",
		slog.String("term", termEID),
		slog.Int("count", len(sites)))
	return sites, nil
}
