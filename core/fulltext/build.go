package fulltext

import (
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/versefinder/core/cas"
	"github.com/FocuswithJustin/versefinder/core/corpus"
	"github.com/FocuswithJustin/versefinder/core/errors"
)

// NewBuildStats starts the stats record for a build of c into lang.
// Engines fill in Documents and Duration when the build completes.
func NewBuildStats(engine string, c *corpus.Corpus, lang, analyzer string) BuildStats {
	return BuildStats{
		Engine:      engine,
		Language:    lang,
		Translation: c.Translation,
		BuildID:     uuid.NewString(),
		Fingerprint: cas.Fingerprint(c),
		Analyzer:    analyzer,
		BuiltAt:     time.Now().UTC(),
	}
}

// CheckNamespace validates lang as an index namespace.
func CheckNamespace(lang string) error {
	if !ValidNamespace(lang) {
		return errors.NewValidation("language", "invalid index namespace "+lang)
	}
	return nil
}

// Filter applies tag filters and the result limit to engine hits.
func Filter(hits []IndexDocument, filters []string, limit int) []IndexDocument {
	out := hits[:0]
	for _, h := range hits {
		if !MatchesFilters(h, filters) {
			continue
		}
		out = append(out, h)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
