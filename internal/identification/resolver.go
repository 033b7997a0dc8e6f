package identification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"tvrename/internal/filename"
	"tvrename/internal/identification/tmdb"
	"tvrename/internal/logging"
	"tvrename/internal/scan"
	"tvrename/internal/services"
	"tvrename/internal/textutil"
)

// Status classifies a match decision.
type Status string

const (
	StatusNoAPIKey     Status = "no_api_key"
	StatusShowNotFound Status = "show_not_found"
	StatusMatched      Status = "matched"
	StatusFallback     Status = "fallback"
	StatusError        Status = "error"
)

// Renamable reports whether a result carries a usable show for renaming.
func (s Status) Renamable() bool {
	return s == StatusMatched || s == StatusFallback
}

// User-facing details for the non-error statuses.
const (
	DetailMatched      = "Matched"
	DetailNoAPIKey     = "Set API Key"
	DetailShowNotFound = "Show Not Found"
	DetailFallback     = "Using Guess (No Title Match)"
)

// MatchResult is the final decision for one file.
type MatchResult struct {
	Entry   scan.FileEntry `json:"entry"`
	Show    string         `json:"show"`
	Season  int            `json:"season"`
	Episode int            `json:"episode"`
	Title   string         `json:"title"`
	Status  Status         `json:"status"`
	Detail  string         `json:"detail"`
}

// Policy holds the candidate limit and acceptance thresholds.
type Policy struct {
	MaxCandidates      int
	TokenSortThreshold float64
	PartialThreshold   float64
	MinFragmentLength  int
}

// DefaultPolicy checks the top three shows and accepts a title when the
// token-sort score exceeds 85, or the partial score exceeds 95 for a
// fragment longer than three characters.
func DefaultPolicy() Policy {
	return Policy{
		MaxCandidates:      3,
		TokenSortThreshold: 85,
		PartialThreshold:   95,
		MinFragmentLength:  3,
	}
}

// Scorer computes fuzzy similarity on a 0-100 scale.
type Scorer interface {
	TokenSort(a, b string) float64
	Partial(a, b string) float64
}

type ratioScorer struct{}

func (ratioScorer) TokenSort(a, b string) float64 { return textutil.TokenSortRatio(a, b) }

func (ratioScorer) Partial(a, b string) float64 { return textutil.PartialRatio(a, b) }

// Resolver turns a file entry into a MatchResult using the filename guesser,
// TMDB lookups, and fuzzy title scoring.
type Resolver struct {
	apiKey  string
	client  tmdb.Searcher
	guesser filename.Guesser
	scorer  Scorer
	policy  Policy
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithGuesser replaces the filename guesser.
func WithGuesser(g filename.Guesser) Option {
	return func(r *Resolver) {
		if g != nil {
			r.guesser = g
		}
	}
}

// WithScorer replaces the similarity scorer.
func WithScorer(s Scorer) Option {
	return func(r *Resolver) {
		if s != nil {
			r.scorer = s
		}
	}
}

// WithPolicy replaces the acceptance policy. Non-positive candidate limits
// keep the default.
func WithPolicy(p Policy) Option {
	return func(r *Resolver) {
		if p.MaxCandidates <= 0 {
			p.MaxCandidates = DefaultPolicy().MaxCandidates
		}
		r.policy = p
	}
}

// NewResolver constructs a Resolver. An empty apiKey makes every result
// StatusNoAPIKey without touching client.
func NewResolver(apiKey string, client tmdb.Searcher, logger *slog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		apiKey:  strings.TrimSpace(apiKey),
		client:  client,
		guesser: filename.DefaultGuesser,
		scorer:  ratioScorer{},
		policy:  DefaultPolicy(),
		logger:  logging.NewComponentLogger(logger, "identification"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces the match decision for entry. It never fails: faults are
// reported as StatusError with the parsed values preserved.
func (r *Resolver) Resolve(ctx context.Context, entry scan.FileEntry) (result MatchResult) {
	guess := r.guesser.Guess(entry.BaseName)
	result = MatchResult{
		Entry:   entry,
		Show:    guess.RawTitle,
		Season:  guess.Season,
		Episode: guess.Episode,
	}
	parsed := result
	logger := logging.WithContext(ctx, r.logger).With(logging.String("file", entry.BaseName))

	defer func() {
		if rec := recover(); rec != nil {
			result = errorResult(parsed, fmt.Errorf("panic: %v", rec))
		}
		r.logDecision(logger, result)
	}()

	if r.apiKey == "" {
		result.Status = StatusNoAPIKey
		result.Detail = DetailNoAPIKey
		return result
	}
	if r.client == nil {
		return errorResult(parsed, services.Wrap(services.ErrConfiguration, "identification", "resolve", "tmdb client not configured", nil))
	}

	resp, err := r.client.SearchTV(ctx, guess.RawTitle)
	if err != nil {
		return errorResult(parsed, err)
	}
	if resp == nil || len(resp.Results) == 0 {
		result.Status = StatusShowNotFound
		result.Detail = DetailShowNotFound
		return result
	}

	fragment := filename.Fragment(entry.BaseName, guess.RawTitle)
	candidates := resp.Results
	if len(candidates) > r.policy.MaxCandidates {
		candidates = candidates[:r.policy.MaxCandidates]
	}

	for _, show := range candidates {
		match, ok, err := r.searchShow(ctx, logger, show, guess.Season, fragment)
		if err != nil {
			return errorResult(parsed, err)
		}
		if ok {
			match.Entry = entry
			return match
		}
	}

	result.Show = candidates[0].Name
	result.Title = ""
	result.Status = StatusFallback
	result.Detail = DetailFallback
	return result
}

// searchShow scans the seasons of one candidate show, target season first,
// for an episode whose title matches fragment.
func (r *Resolver) searchShow(ctx context.Context, logger *slog.Logger, show tmdb.Result, target int, fragment string) (MatchResult, bool, error) {
	details, err := r.client.GetTVDetails(ctx, show.ID)
	if err != nil {
		return MatchResult{}, false, err
	}
	seasonCount := 1
	if details != nil {
		seasonCount = details.NumberOfSeasons
	}

	folded := fold(fragment)
	for _, season := range SeasonOrder(target, seasonCount) {
		seasonDetails, err := r.client.GetSeasonDetails(ctx, show.ID, season)
		if errors.Is(err, services.ErrNotFound) {
			logger.Debug("season not found; treating as empty",
				logging.Int64("show_id", show.ID),
				logging.Int("season", season),
			)
			continue
		}
		if err != nil {
			return MatchResult{}, false, err
		}
		if seasonDetails == nil {
			continue
		}
		for _, episode := range seasonDetails.Episodes {
			if !r.accepts(folded, fold(episode.Name)) {
				continue
			}
			return MatchResult{
				Show:    show.Name,
				Season:  season,
				Episode: episode.EpisodeNumber,
				Title:   episode.Name,
				Status:  StatusMatched,
				Detail:  DetailMatched,
			}, true, nil
		}
	}
	return MatchResult{}, false, nil
}

func (r *Resolver) accepts(fragment, title string) bool {
	if r.scorer.TokenSort(fragment, title) > r.policy.TokenSortThreshold {
		return true
	}
	return utf8.RuneCountInString(fragment) > r.policy.MinFragmentLength &&
		r.scorer.Partial(fragment, title) > r.policy.PartialThreshold
}

func (r *Resolver) logDecision(logger *slog.Logger, result MatchResult) {
	attrs := append(logging.DecisionAttrs("episode_match", string(result.Status), result.Detail),
		logging.String("show", result.Show),
		logging.Int("season", result.Season),
		logging.Int("episode", result.Episode),
	)
	if result.Status == StatusError {
		attrs = append(attrs,
			logging.String(logging.FieldErrorHint, "check network access and the TMDB API key"),
			logging.String(logging.FieldImpact, "file keeps its current name"),
		)
		logging.WarnWithContext(logger, "match failed", "match_error", attrs...)
		return
	}
	logger.Info("match decision", logging.Args(attrs...)...)
}

// SeasonOrder returns the seasons to search: target first, then every other
// season from 1 to count in ascending order. Counts below 1 are treated as 1.
func SeasonOrder(target, count int) []int {
	if count < 1 {
		count = 1
	}
	if target < 1 {
		target = 1
	}
	order := make([]int, 0, count+1)
	order = append(order, target)
	for season := 1; season <= count; season++ {
		if season != target {
			order = append(order, season)
		}
	}
	return order
}

func errorResult(parsed MatchResult, err error) MatchResult {
	parsed.Title = ""
	parsed.Status = StatusError
	parsed.Detail = "Error: " + err.Error()
	return parsed
}

func fold(s string) string {
	return cases.Fold().String(s)
}
