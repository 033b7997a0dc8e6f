package organizer

import (
	"fmt"
	"strings"

	"tvrename/internal/identification"
	"tvrename/internal/textutil"
)

// Placeholders understood by Render.
const (
	TokenShow          = "{n}"
	TokenSeasonEpisode = "{s00e00}"
	TokenTitle         = "{t}"
)

// trailingSeparators are trimmed from a rendered name when a placeholder
// expanded to nothing, so "{n} - {s00e00} - {t}" with no title does not end
// in " - ".
const trailingSeparators = " -_."

// Render expands pattern for result. Unknown tokens pass through unchanged.
func Render(pattern string, result identification.MatchResult) string {
	values := []struct {
		token string
		value string
	}{
		{TokenShow, textutil.SanitizeFileName(result.Show)},
		{TokenSeasonEpisode, fmt.Sprintf("S%02dE%02d", result.Season, result.Episode)},
		{TokenTitle, textutil.SanitizeFileName(result.Title)},
	}

	rendered := pattern
	emptied := false
	for _, v := range values {
		if !strings.Contains(rendered, v.token) {
			continue
		}
		if v.value == "" {
			emptied = true
		}
		rendered = strings.ReplaceAll(rendered, v.token, v.value)
	}
	if emptied {
		rendered = strings.TrimRight(rendered, trailingSeparators)
	}
	return rendered
}

// TargetName is the rendered pattern plus the entry's original extension.
func TargetName(pattern string, result identification.MatchResult) string {
	return Render(pattern, result) + result.Entry.Extension
}
