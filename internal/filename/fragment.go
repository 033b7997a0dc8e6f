package filename

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"tvrename/internal/textutil"
)

var (
	trailingIDPattern    = regexp.MustCompile(`[-_][A-Za-z0-9_-]{11}$`)
	episodeMarkerPattern = regexp.MustCompile(`(?i)Ep\.?\s?\d+`)
	seasonEpisodePattern = regexp.MustCompile(`(?i)S\d+E\d+`)
)

// Fragment returns the search fragment for name once showName, trailing
// video ids, and episode markers are removed. The result may be empty.
func Fragment(name, showName string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	if show := strings.TrimSpace(showName); show != "" {
		showPattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(show))
		stem = showPattern.ReplaceAllString(stem, "")
	}

	stem = trailingIDPattern.ReplaceAllString(stem, "")
	stem = episodeMarkerPattern.ReplaceAllString(stem, "")
	stem = seasonEpisodePattern.ReplaceAllString(stem, "")

	return normalizeFragment(stem)
}

// normalizeFragment keeps letters, digits, and spaces, then collapses
// whitespace. Applying it twice yields the same string.
func normalizeFragment(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
	return textutil.CollapseSpaces(cleaned)
}
