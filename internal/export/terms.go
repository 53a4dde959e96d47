package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LongsightGroup/sakai-starfish-export/internal/sakai"
)

// TermResolver determines which academic terms a run processes.
type TermResolver struct {
	explicit []string
	provider sakai.TermProvider
	logger   *slog.Logger
}

// NewTermResolver builds a resolver. When explicit is non-empty it wins over
// the provider and is used verbatim, duplicates included.
func NewTermResolver(explicit []string, provider sakai.TermProvider, logger *slog.Logger) *TermResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &TermResolver{explicit: explicit, provider: provider, logger: logger}
}

// Resolve returns the term codes to process. The result is never nil: when
// no term is configured and no term is currently active, it is an empty
// slice so downstream iteration is safe.
func (r *TermResolver) Resolve(ctx context.Context) ([]string, error) {
	if len(r.explicit) > 0 {
		terms := make([]string, len(r.explicit))
		copy(terms, r.explicit)
		r.logger.Info("using configured terms", slog.Int("count", len(terms)))
		return terms, nil
	}

	current, err := r.provider.CurrentTerms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current terms: %w", err)
	}

	// Deduplicate, keeping first-seen order so runs stay deterministic.
	terms := make([]string, 0, len(current))
	seen := make(map[string]struct{}, len(current))
	for _, term := range current {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	r.logger.Info("resolved current terms", slog.Int("count", len(terms)))
	return terms, nil
}
