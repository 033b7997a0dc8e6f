package filename

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/moistari/rls"

	"tvrename/internal/textutil"
)

// Guess is the local best guess for a filename.
type Guess struct {
	RawTitle string
	Season   int
	Episode  int
}

// Guesser derives a Guess from a filename.
type Guesser interface {
	Guess(name string) Guess
}

// GuesserFunc adapts a function to the Guesser interface.
type GuesserFunc func(name string) Guess

// Guess implements Guesser.
func (f GuesserFunc) Guess(name string) Guess { return f(name) }

// DefaultGuesser is the rls-backed guesser used by Parse.
var DefaultGuesser Guesser = GuesserFunc(Parse)

// episodeRule is one ordered heuristic. Season is the capture group holding
// the season number, or 0 when the marker only carries an episode.
type episodeRule struct {
	name    string
	pattern *regexp.Regexp
	season  int
	episode int
}

var episodeRules = []episodeRule{
	{name: "sxxexx", pattern: regexp.MustCompile(`(?i)(?:^|[^a-z0-9])S(\d{1,3})[ ._-]?E(\d{1,4})`), season: 1, episode: 2},
	{name: "nxnn", pattern: regexp.MustCompile(`(?i)(?:^|[^a-z0-9])(\d{1,2})x(\d{1,3})(?:$|[^a-z0-9])`), season: 1, episode: 2},
	{name: "season-episode", pattern: regexp.MustCompile(`(?i)(?:^|[^a-z0-9])Season[ ._-]*(\d{1,3})[ ._-]*Episode[ ._-]*(\d{1,4})`), season: 1, episode: 2},
	{name: "ep", pattern: regexp.MustCompile(`(?i)(?:^|[^a-z0-9])Ep\.?[ ._-]?(\d{1,4})(?:$|[^0-9])`), episode: 1},
	{name: "episode", pattern: regexp.MustCompile(`(?i)(?:^|[^a-z0-9])Episode[ ._-]*(\d{1,4})(?:$|[^0-9])`), episode: 1},
}

var separatorReplacer = strings.NewReplacer(".", " ", "_", " ")

// Parse extracts the show title, season, and episode from name. Missing or
// non-positive numbers default to 1 and a missing title falls back to the
// whole filename.
func Parse(name string) Guess {
	name = strings.TrimSpace(name)
	release := rls.ParseString(name)

	guess := Guess{
		RawTitle: strings.TrimSpace(release.Title),
		Season:   release.Series,
		Episode:  release.Episode,
	}

	if guess.RawTitle == "" || guess.Season <= 0 || guess.Episode <= 0 {
		title, season, episode := heuristicGuess(name)
		if guess.RawTitle == "" {
			guess.RawTitle = title
		}
		if guess.Season <= 0 {
			guess.Season = season
		}
		if guess.Episode <= 0 {
			guess.Episode = episode
		}
	}

	if guess.RawTitle == "" {
		guess.RawTitle = name
	}
	if guess.Season <= 0 {
		guess.Season = 1
	}
	if guess.Episode <= 0 {
		guess.Episode = 1
	}
	return guess
}

// heuristicGuess applies the first matching episode rule. The title is the
// text in front of the marker with dots and underscores read as spaces.
func heuristicGuess(name string) (title string, season, episode int) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	for _, rule := range episodeRules {
		loc := rule.pattern.FindStringSubmatchIndex(stem)
		if loc == nil {
			continue
		}
		if rule.season > 0 {
			season = atoiGroup(stem, loc, rule.season)
		}
		episode = atoiGroup(stem, loc, rule.episode)
		title = cleanTitle(stem[:loc[0]])
		return title, season, episode
	}
	return cleanTitle(stem), 0, 0
}

func atoiGroup(s string, loc []int, group int) int {
	start, end := loc[2*group], loc[2*group+1]
	if start < 0 {
		return 0
	}
	value, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0
	}
	return value
}

func cleanTitle(s string) string {
	s = separatorReplacer.Replace(s)
	s = textutil.CollapseSpaces(s)
	return strings.Trim(s, " -[]()")
}
