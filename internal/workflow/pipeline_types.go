package workflow

import (
	"context"

	"tvrename/internal/identification"
	"tvrename/internal/organizer"
	"tvrename/internal/scan"
	"tvrename/internal/store"
)

// Resolver turns one file entry into a match decision.
type Resolver interface {
	Resolve(ctx context.Context, entry scan.FileEntry) identification.MatchResult
}

// Journal persists rename outcomes.
type Journal interface {
	RecordRename(ctx context.Context, entry store.JournalEntry) error
}

// Item pairs a match result with the name its file would receive.
type Item struct {
	Result  identification.MatchResult `json:"result"`
	Preview string                     `json:"preview"`
}

// Progress is reported after each file is resolved.
type Progress struct {
	Completed int
	Total     int
	Item      Item
}

// ProgressFunc receives match progress. It runs on the pipeline goroutine.
type ProgressFunc func(Progress)

// Summary describes one rename batch.
type Summary struct {
	RunID     string              `json:"run_id"`
	DryRun    bool                `json:"dry_run"`
	Outcomes  []organizer.Outcome `json:"outcomes"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}
